package repository

import (
	"time"

	assistantdomain "mailmate-backend/internal/assistant/domain"
	emaildomain "mailmate-backend/internal/email/domain"
)

// ConversationStore keeps a bounded, per-user log of conversation turns.
type ConversationStore interface {
	// Append adds a turn; the oldest turns are evicted once the per-user log
	// exceeds its cap.
	Append(userID string, turn assistantdomain.ConversationTurn)
	// History returns a snapshot of the user's turns, oldest first.
	History(userID string) []assistantdomain.ConversationTurn
	// RecentContext renders the last n turns as "role: content" lines,
	// most-recent-last, for inclusion in downstream prompts. Empty string if
	// the user has no history.
	RecentContext(userID string, n int) string
	// LastAction returns the most recent non-empty action tag, or "".
	LastAction(userID string) string
	Clear(userID string)
}

// EmailCache holds the single most-recently-fetched list of email summaries
// per user. Each Set replaces the whole snapshot; there is no merging.
type EmailCache interface {
	Set(userID string, emails []*emaildomain.EmailSummary)
	Get(userID string) []*emaildomain.EmailSummary
	// FetchedAt reports when the user's snapshot was taken, false if never.
	FetchedAt(userID string) (time.Time, bool)
	Clear(userID string)
}
