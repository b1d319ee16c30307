package usecase

import (
	"context"
	"errors"
	"testing"

	authdomain "mailmate-backend/internal/auth/domain"
	emaildomain "mailmate-backend/internal/email/domain"
	"mailmate-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeUserRepo serves a single user from memory.
type fakeUserRepo struct {
	user    *authdomain.User
	updated *authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error { return nil }
func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	return r.user, nil
}
func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.user, nil
}
func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.updated = user
	return nil
}
func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }
func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) DeleteRefreshToken(token string) error          { return nil }
func (r *fakeUserRepo) DeleteRefreshTokensByUser(userID string) error  { return nil }
func (r *fakeUserRepo) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	return nil
}

// fakeMailProvider records the tokens and query it was called with.
type fakeMailProvider struct {
	gotAccess  string
	gotRefresh string
	gotQuery   string
	gotMax     int64
	emails     []*emaildomain.EmailSummary
	callback   emaildomain.TokenUpdateFunc
}

func (p *fakeMailProvider) ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int64, onTokenRefresh emaildomain.TokenUpdateFunc) ([]*emaildomain.EmailSummary, error) {
	p.gotAccess = accessToken
	p.gotRefresh = refreshToken
	p.gotQuery = query
	p.gotMax = maxResults
	p.callback = onTokenRefresh
	return p.emails, nil
}

func (p *fakeMailProvider) GetMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh emaildomain.TokenUpdateFunc) (*emaildomain.MessageDetail, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeMailProvider) TrashMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh emaildomain.TokenUpdateFunc) error {
	p.gotAccess = accessToken
	return nil
}

func (p *fakeMailProvider) SendReply(ctx context.Context, accessToken, refreshToken, messageID, replyText string, onTokenRefresh emaildomain.TokenUpdateFunc) (string, error) {
	return "sent-id", nil
}

// failingReplyService always errors.
type failingReplyService struct{}

func (failingReplyService) GenerateReply(ctx context.Context, emailContent, conversationContext string) (string, error) {
	return "", errors.New("model overloaded")
}

func linkedUser() *authdomain.User {
	return &authdomain.User{
		ID:           "u1",
		Email:        "u1@example.com",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}
}

// recordingContextProvider returns canned conversation context.
type recordingContextProvider struct {
	context string
	asked   bool
}

func (p *recordingContextProvider) RecentContext(userID string, n int) string {
	p.asked = true
	return p.context
}

func TestRecentEmailsPassesStoredTokens(t *testing.T) {
	provider := &fakeMailProvider{emails: []*emaildomain.EmailSummary{{ID: "m1"}}}
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, provider, nil, nil)

	emails, err := uc.RecentEmails(context.Background(), "u1", 5)
	require.NoError(t, err)
	assert.Len(t, emails, 1)
	assert.Equal(t, "access-1", provider.gotAccess)
	assert.Equal(t, "refresh-1", provider.gotRefresh)
	assert.Empty(t, provider.gotQuery)
	assert.Equal(t, int64(5), provider.gotMax)
}

func TestSearchEmailsPassesQuery(t *testing.T) {
	provider := &fakeMailProvider{}
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, provider, nil, nil)

	_, err := uc.SearchEmails(context.Background(), "u1", "from:amazon", 1)
	require.NoError(t, err)
	assert.Equal(t, "from:amazon", provider.gotQuery)
	assert.Equal(t, int64(1), provider.gotMax)
}

func TestUnlinkedUserIsNotAuthenticated(t *testing.T) {
	uc := NewEmailUsecase(&fakeUserRepo{user: nil}, &fakeMailProvider{}, nil, nil)

	_, err := uc.RecentEmails(context.Background(), "u1", 5)
	assert.ErrorIs(t, err, emaildomain.ErrNotAuthenticated)

	// Same for a user row without stored Gmail tokens.
	uc = NewEmailUsecase(&fakeUserRepo{user: &authdomain.User{ID: "u1"}}, &fakeMailProvider{}, nil, nil)
	err = uc.TrashEmail(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, emaildomain.ErrNotAuthenticated)
}

func TestTokenRefreshCallbackPersistsTokens(t *testing.T) {
	repo := &fakeUserRepo{user: linkedUser()}
	provider := &fakeMailProvider{}
	uc := NewEmailUsecase(repo, provider, nil, nil)

	_, err := uc.RecentEmails(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.NotNil(t, provider.callback)

	require.NoError(t, provider.callback(&oauth2.Token{AccessToken: "access-2"}))
	require.NotNil(t, repo.updated)
	assert.Equal(t, "access-2", repo.updated.AccessToken)
	// A refresh response without a new refresh token keeps the old one.
	assert.Equal(t, "refresh-1", repo.updated.RefreshToken)
}

func TestGenerateReplyFallsBackOnAIError(t *testing.T) {
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, &fakeMailProvider{}, failingReplyService{}, nil)

	reply := uc.GenerateReply(context.Background(), "u1", "Lunch tomorrow?", "")
	assert.Equal(t, ai.FallbackReply, reply)
}

func TestGenerateReplyFallsBackWithoutAIService(t *testing.T) {
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, &fakeMailProvider{}, nil, nil)

	reply := uc.GenerateReply(context.Background(), "u1", "Lunch tomorrow?", "")
	assert.Equal(t, ai.FallbackReply, reply)
}

// echoReplyService returns the context it was given so tests can see it.
type echoReplyService struct{}

func (echoReplyService) GenerateReply(ctx context.Context, emailContent, conversationContext string) (string, error) {
	return conversationContext, nil
}

func TestGenerateReplyFillsContextFromConversation(t *testing.T) {
	contextProvider := &recordingContextProvider{context: "user: reply to the first email"}
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, &fakeMailProvider{}, echoReplyService{}, contextProvider)

	reply := uc.GenerateReply(context.Background(), "u1", "Lunch tomorrow?", "")
	assert.True(t, contextProvider.asked)
	assert.Equal(t, "user: reply to the first email", reply)
}

func TestGenerateReplyKeepsExplicitContext(t *testing.T) {
	contextProvider := &recordingContextProvider{context: "stored context"}
	uc := NewEmailUsecase(&fakeUserRepo{user: linkedUser()}, &fakeMailProvider{}, echoReplyService{}, contextProvider)

	reply := uc.GenerateReply(context.Background(), "u1", "Lunch tomorrow?", "caller context")
	assert.False(t, contextProvider.asked)
	assert.Equal(t, "caller context", reply)
}
