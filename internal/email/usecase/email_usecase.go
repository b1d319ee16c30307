package usecase

import (
	"context"
	"log"

	authrepo "mailmate-backend/internal/auth/repository"
	emaildomain "mailmate-backend/internal/email/domain"
	"mailmate-backend/pkg/ai"

	"golang.org/x/oauth2"
)

// contextTurns bounds how much conversation history goes into a reply prompt.
const contextTurns = 6

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	userRepo        authrepo.UserRepository
	mailProvider    emaildomain.MailProvider
	aiService       ai.ReplyService
	contextProvider ConversationContextProvider
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(userRepo authrepo.UserRepository, mailProvider emaildomain.MailProvider, aiService ai.ReplyService, contextProvider ConversationContextProvider) EmailUsecase {
	return &emailUsecase{
		userRepo:        userRepo,
		mailProvider:    mailProvider,
		aiService:       aiService,
		contextProvider: contextProvider,
	}
}

func (u *emailUsecase) RecentEmails(ctx context.Context, userID string, maxResults int64) ([]*emaildomain.EmailSummary, error) {
	accessToken, refreshToken, err := u.getUserTokens(userID)
	if err != nil {
		return nil, err
	}
	return u.mailProvider.ListMessages(ctx, accessToken, refreshToken, "", maxResults, u.makeTokenUpdateCallback(userID))
}

func (u *emailUsecase) SearchEmails(ctx context.Context, userID, query string, maxResults int64) ([]*emaildomain.EmailSummary, error) {
	accessToken, refreshToken, err := u.getUserTokens(userID)
	if err != nil {
		return nil, err
	}
	return u.mailProvider.ListMessages(ctx, accessToken, refreshToken, query, maxResults, u.makeTokenUpdateCallback(userID))
}

func (u *emailUsecase) TrashEmail(ctx context.Context, userID, messageID string) error {
	accessToken, refreshToken, err := u.getUserTokens(userID)
	if err != nil {
		return err
	}
	return u.mailProvider.TrashMessage(ctx, accessToken, refreshToken, messageID, u.makeTokenUpdateCallback(userID))
}

func (u *emailUsecase) SendReply(ctx context.Context, userID, messageID, replyText string) (string, error) {
	accessToken, refreshToken, err := u.getUserTokens(userID)
	if err != nil {
		return "", err
	}
	return u.mailProvider.SendReply(ctx, accessToken, refreshToken, messageID, replyText, u.makeTokenUpdateCallback(userID))
}

// GenerateReply drafts a reply to emailContent. AI failures degrade to a
// fixed fallback draft instead of an error so the user can always keep going.
func (u *emailUsecase) GenerateReply(ctx context.Context, userID, emailContent, conversationContext string) string {
	if u.aiService == nil {
		return ai.FallbackReply
	}

	if conversationContext == "" && u.contextProvider != nil {
		conversationContext = u.contextProvider.RecentContext(userID, contextTurns)
	}

	reply, err := u.aiService.GenerateReply(ctx, emailContent, conversationContext)
	if err != nil {
		log.Printf("[Email] reply generation failed: %v", err)
		return ai.FallbackReply
	}
	return reply
}

func (u *emailUsecase) getUserTokens(userID string) (string, string, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return "", "", err
	}
	if user == nil || user.AccessToken == "" {
		return "", "", emaildomain.ErrNotAuthenticated
	}
	return user.AccessToken, user.RefreshToken, nil
}

// makeTokenUpdateCallback persists refreshed Gmail tokens so the next request
// does not redo the refresh round trip.
func (u *emailUsecase) makeTokenUpdateCallback(userID string) emaildomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		user, err := u.userRepo.FindByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}

		user.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			user.RefreshToken = token.RefreshToken
		}
		user.TokenExpiry = token.Expiry

		return u.userRepo.Update(user)
	}
}
