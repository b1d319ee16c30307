package usecase

import (
	"context"

	assistantdomain "mailmate-backend/internal/assistant/domain"
	emaildomain "mailmate-backend/internal/email/domain"
)

// AssistantUsecase drives one conversational command end to end.
type AssistantUsecase interface {
	// ProcessCommand interprets a free-text command for a user and returns
	// the assistant's reply. Provider failures are absorbed into the reply;
	// only an unauthenticated user surfaces as an error.
	ProcessCommand(ctx context.Context, userID, command string) (string, error)
	History(userID string) []assistantdomain.ConversationTurn
	Reset(userID string)
}

// EmailOperations is the slice of the email collaborator the processor
// needs. Satisfied by the email usecase.
type EmailOperations interface {
	RecentEmails(ctx context.Context, userID string, maxResults int64) ([]*emaildomain.EmailSummary, error)
	SearchEmails(ctx context.Context, userID, query string, maxResults int64) ([]*emaildomain.EmailSummary, error)
	TrashEmail(ctx context.Context, userID, messageID string) error
}
