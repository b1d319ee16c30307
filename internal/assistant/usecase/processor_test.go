package usecase

import (
	"context"
	"errors"
	"testing"

	"mailmate-backend/internal/assistant/domain"
	"mailmate-backend/internal/assistant/repository"
	emaildomain "mailmate-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmailOps records calls and serves canned results.
type fakeEmailOps struct {
	recent     []*emaildomain.EmailSummary
	recentErr  error
	search     []*emaildomain.EmailSummary
	searchErr  error
	trashErr   error
	lastQuery  string
	lastMax    int64
	trashedIDs []string
}

func (f *fakeEmailOps) RecentEmails(ctx context.Context, userID string, maxResults int64) ([]*emaildomain.EmailSummary, error) {
	f.lastMax = maxResults
	return f.recent, f.recentErr
}

func (f *fakeEmailOps) SearchEmails(ctx context.Context, userID, query string, maxResults int64) ([]*emaildomain.EmailSummary, error) {
	f.lastQuery = query
	f.lastMax = maxResults
	return f.search, f.searchErr
}

func (f *fakeEmailOps) TrashEmail(ctx context.Context, userID, messageID string) error {
	if f.trashErr != nil {
		return f.trashErr
	}
	f.trashedIDs = append(f.trashedIDs, messageID)
	return nil
}

func sampleEmails() []*emaildomain.EmailSummary {
	return []*emaildomain.EmailSummary{
		{ID: "m1", Sender: "Amazon <order@amazon.com>", Subject: "Your order has shipped", Snippet: "Your package is on its way"},
		{ID: "m2", Sender: "bob@example.com", Subject: "Lunch tomorrow?", Snippet: "Are you free around noon"},
		{ID: "m3", Sender: "billing@acme.io", Subject: "Invoice #1042", Snippet: "Please find attached"},
	}
}

func newTestProcessor(ops EmailOperations) AssistantUsecase {
	return NewCommandProcessor(repository.NewConversationStore(), repository.NewEmailCache(), ops)
}

func TestProcessCommandGreeting(t *testing.T) {
	p := newTestProcessor(&fakeEmailOps{})

	reply, err := p.ProcessCommand(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, greetingReply, reply)

	history := p.History("u1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Empty(t, history[1].ActionTaken)
}

func TestProcessCommandFetchEmails(t *testing.T) {
	ops := &fakeEmailOps{recent: sampleEmails()}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "show me my latest 2 emails")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ops.lastMax)
	assert.Contains(t, reply, "Here are your latest emails:")
	assert.Contains(t, reply, "Your order has shipped")
	assert.Contains(t, reply, "Invoice #1042")

	history := p.History("u1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.ActionFetchEmails, history[1].ActionTaken)
}

func TestProcessCommandFetchFromSender(t *testing.T) {
	ops := &fakeEmailOps{search: sampleEmails()[:1]}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "show me emails from amazon")
	require.NoError(t, err)
	assert.Equal(t, "from:amazon", ops.lastQuery)
	assert.Contains(t, reply, "Here are the latest emails from amazon:")
}

func TestProcessCommandFetchFromSenderNoResults(t *testing.T) {
	ops := &fakeEmailOps{}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "show me emails from nobody@nowhere.dev")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any emails from nobody@nowhere.dev.", reply)
	assert.Empty(t, p.History("u1")[1].ActionTaken)
}

func TestProcessCommandFetchEmptyInbox(t *testing.T) {
	ops := &fakeEmailOps{}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "check my email")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any messages in your inbox.", reply)
	// An empty fetch is still a completed fetch.
	assert.Equal(t, domain.ActionFetchEmails, p.History("u1")[1].ActionTaken)
}

func TestProcessCommandDeleteAfterFetch(t *testing.T) {
	ops := &fakeEmailOps{recent: sampleEmails()}
	p := newTestProcessor(ops)

	_, err := p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	require.NoError(t, err)

	reply, err := p.ProcessCommand(context.Background(), "u1", "delete the first email")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ops.trashedIDs)
	assert.Equal(t, `Done. "Your order has shipped" from Amazon <order@amazon.com> has been moved to trash.`, reply)
	assert.Equal(t, domain.ActionDeleteEmail, p.History("u1")[3].ActionTaken)
}

func TestProcessCommandDeleteWithoutFetchAsksToFetch(t *testing.T) {
	ops := &fakeEmailOps{}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "delete the first email")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fetch your emails first")
	assert.Empty(t, ops.trashedIDs)
}

func TestProcessCommandDeleteWithoutTargetAsksWhich(t *testing.T) {
	ops := &fakeEmailOps{}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "delete")
	require.NoError(t, err)
	assert.Contains(t, reply, "Which email would you like to delete?")
	assert.Empty(t, ops.trashedIDs)
}

func TestProcessCommandDeleteBySender(t *testing.T) {
	ops := &fakeEmailOps{search: sampleEmails()[:1]}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "delete the email from amazon")
	require.NoError(t, err)
	assert.Equal(t, "from:amazon", ops.lastQuery)
	assert.Equal(t, int64(1), ops.lastMax)
	assert.Equal(t, []string{"m1"}, ops.trashedIDs)
	assert.Contains(t, reply, "has been moved to trash")
}

func TestProcessCommandReplyToOrdinal(t *testing.T) {
	ops := &fakeEmailOps{recent: sampleEmails()}
	p := newTestProcessor(ops)

	_, err := p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	require.NoError(t, err)

	reply, err := p.ProcessCommand(context.Background(), "u1", "reply to the 2nd email")
	require.NoError(t, err)
	assert.Contains(t, reply, `I'll draft a reply to "Lunch tomorrow?" from bob@example.com.`)
	assert.Equal(t, domain.ActionGenerateReply, p.History("u1")[3].ActionTaken)
}

func TestProcessCommandReplyWithoutFetch(t *testing.T) {
	p := newTestProcessor(&fakeEmailOps{})

	reply, err := p.ProcessCommand(context.Background(), "u1", "reply to the first email")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fetch your emails first")
}

func TestProcessCommandSearch(t *testing.T) {
	ops := &fakeEmailOps{search: sampleEmails()}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "search emails about invoice")
	require.NoError(t, err)
	assert.Equal(t, "invoice", ops.lastQuery)
	assert.Contains(t, reply, `Here's what I found for "invoice":`)
	// Relevance ranking puts the invoice email ahead of the rest.
	assert.Regexp(t, `1\. Invoice #1042`, reply)
	assert.Equal(t, domain.ActionSearchEmails, p.History("u1")[1].ActionTaken)
}

func TestProcessCommandStatus(t *testing.T) {
	ops := &fakeEmailOps{recent: sampleEmails()}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "status")
	require.NoError(t, err)
	assert.Contains(t, reply, "I haven't performed any email actions")

	_, err = p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	require.NoError(t, err)

	reply, err = p.ProcessCommand(context.Background(), "u1", "status")
	require.NoError(t, err)
	assert.Contains(t, reply, "fetching your emails")
	assert.Contains(t, reply, "Your inbox snapshot is from")
}

func TestProcessCommandUnknownFallsBack(t *testing.T) {
	p := newTestProcessor(&fakeEmailOps{})

	reply, err := p.ProcessCommand(context.Background(), "u1", "qwerty asdf")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply)
}

func TestProcessCommandProviderErrorBecomesApology(t *testing.T) {
	ops := &fakeEmailOps{recentErr: errors.New("googleapi: Error 503")}
	p := newTestProcessor(ops)

	reply, err := p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	require.NoError(t, err)
	assert.Contains(t, reply, "Sorry, I ran into a problem talking to your mailbox")
	assert.Contains(t, reply, "googleapi: Error 503")
	assert.Empty(t, p.History("u1")[1].ActionTaken)
}

func TestProcessCommandUnauthenticatedSurfaces(t *testing.T) {
	ops := &fakeEmailOps{recentErr: emaildomain.ErrNotAuthenticated}
	p := newTestProcessor(ops)

	_, err := p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	assert.ErrorIs(t, err, emaildomain.ErrNotAuthenticated)
}

func TestResetClearsHistoryAndCache(t *testing.T) {
	ops := &fakeEmailOps{recent: sampleEmails()}
	p := newTestProcessor(ops)

	_, err := p.ProcessCommand(context.Background(), "u1", "show me my latest emails")
	require.NoError(t, err)
	p.Reset("u1")

	assert.Empty(t, p.History("u1"))

	// The cached snapshot is gone too, so references stop resolving.
	reply, err := p.ProcessCommand(context.Background(), "u1", "reply to the first email")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fetch your emails first")
}
