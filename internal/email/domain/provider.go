package domain

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrNotAuthenticated means the user has no stored Gmail credentials. It is
// the only failure allowed to reach API callers as a structured error.
var ErrNotAuthenticated = errors.New("user has no linked Gmail account")

// TokenUpdateFunc is called when the OAuth token source refreshes the user's
// access token, so the new token can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error

// MailProvider abstracts the email provider API (Gmail).
type MailProvider interface {
	// ListMessages returns message summaries, bounded by maxResults. An empty
	// query lists the default inbox; otherwise query uses provider search
	// syntax (e.g. "from:billing@example.com").
	ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int64, onTokenRefresh TokenUpdateFunc) ([]*EmailSummary, error)
	// GetMessage fetches one message with the headers needed for replying.
	GetMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh TokenUpdateFunc) (*MessageDetail, error)
	// TrashMessage moves a message to trash. Never a permanent delete.
	TrashMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh TokenUpdateFunc) error
	// SendReply sends replyText as a threaded reply to messageID and returns
	// the provider-assigned id of the sent message.
	SendReply(ctx context.Context, accessToken, refreshToken, messageID, replyText string, onTokenRefresh TokenUpdateFunc) (string, error)
}
