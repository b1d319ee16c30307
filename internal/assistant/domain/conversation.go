package domain

import "time"

// Roles for conversation turns
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Action tags recorded on assistant turns after a mailbox operation
const (
	ActionFetchEmails   = "fetch_emails"
	ActionDeleteEmail   = "delete_email"
	ActionGenerateReply = "generate_reply"
	ActionSearchEmails  = "search_email"
)

// ConversationTurn is a single message in a user's rolling conversation log.
// Turns are immutable once appended.
type ConversationTurn struct {
	Role        string    `json:"role"` // "user" or "assistant"
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	ActionTaken string    `json:"action_taken,omitempty"`
}
