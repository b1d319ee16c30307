package usecase

import (
	"context"

	emaildomain "mailmate-backend/internal/email/domain"
)

// EmailUsecase defines mailbox operations on behalf of a signed-in user.
type EmailUsecase interface {
	RecentEmails(ctx context.Context, userID string, maxResults int64) ([]*emaildomain.EmailSummary, error)
	SearchEmails(ctx context.Context, userID, query string, maxResults int64) ([]*emaildomain.EmailSummary, error)
	TrashEmail(ctx context.Context, userID, messageID string) error
	SendReply(ctx context.Context, userID, messageID, replyText string) (string, error)

	// GenerateReply never fails: when no AI provider can produce a draft it
	// returns a fixed editable fallback. An empty conversationContext is
	// filled in from the user's recent assistant conversation.
	GenerateReply(ctx context.Context, userID, emailContent, conversationContext string) string
}

// ConversationContextProvider supplies recent assistant conversation turns
// as prompt context. Satisfied by the assistant conversation store.
type ConversationContextProvider interface {
	RecentContext(userID string, n int) string
}
