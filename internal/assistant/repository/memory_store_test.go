package repository

import (
	"fmt"
	"testing"

	assistantdomain "mailmate-backend/internal/assistant/domain"
	emaildomain "mailmate-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStoreCapsAtTwentyTurns(t *testing.T) {
	store := NewConversationStore()

	for i := 0; i < 25; i++ {
		store.Append("u1", assistantdomain.ConversationTurn{
			Role:    assistantdomain.RoleUser,
			Content: fmt.Sprintf("turn %d", i),
		})
	}

	history := store.History("u1")
	require.Len(t, history, 20)
	// Oldest turns were evicted; order is preserved.
	assert.Equal(t, "turn 5", history[0].Content)
	assert.Equal(t, "turn 24", history[19].Content)
}

func TestConversationStoreHistoryIsACopy(t *testing.T) {
	store := NewConversationStore()
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "original"})

	history := store.History("u1")
	history[0].Content = "mutated"

	assert.Equal(t, "original", store.History("u1")[0].Content)
}

func TestConversationStoreIsolatesUsers(t *testing.T) {
	store := NewConversationStore()
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "hi"})

	assert.Empty(t, store.History("u2"))
}

func TestConversationStoreRecentContext(t *testing.T) {
	store := NewConversationStore()
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "show my emails"})
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleAssistant, Content: "Here are your latest emails:"})
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "delete the first one"})

	assert.Equal(t,
		"assistant: Here are your latest emails:\nuser: delete the first one",
		store.RecentContext("u1", 2))
	assert.Empty(t, store.RecentContext("u2", 2))
}

func TestConversationStoreLastAction(t *testing.T) {
	store := NewConversationStore()
	assert.Empty(t, store.LastAction("u1"))

	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleAssistant, ActionTaken: assistantdomain.ActionFetchEmails})
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "thanks"})
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleAssistant, Content: "You're welcome!"})

	// Turns without an action are skipped on the way back.
	assert.Equal(t, assistantdomain.ActionFetchEmails, store.LastAction("u1"))
}

func TestConversationStoreClear(t *testing.T) {
	store := NewConversationStore()
	store.Append("u1", assistantdomain.ConversationTurn{Role: assistantdomain.RoleUser, Content: "hello"})

	store.Clear("u1")
	assert.Empty(t, store.History("u1"))
}

func TestEmailCacheSetReplacesSnapshot(t *testing.T) {
	cache := NewEmailCache()

	cache.Set("u1", []*emaildomain.EmailSummary{{ID: "old"}})
	cache.Set("u1", []*emaildomain.EmailSummary{{ID: "new1"}, {ID: "new2"}})

	snapshot := cache.Get("u1")
	require.Len(t, snapshot, 2)
	assert.Equal(t, "new1", snapshot[0].ID)
}

func TestEmailCacheGetIsACopy(t *testing.T) {
	cache := NewEmailCache()
	cache.Set("u1", []*emaildomain.EmailSummary{{ID: "m1"}, {ID: "m2"}})

	snapshot := cache.Get("u1")
	snapshot[0] = &emaildomain.EmailSummary{ID: "swapped"}

	assert.Equal(t, "m1", cache.Get("u1")[0].ID)
}

func TestEmailCacheFetchedAt(t *testing.T) {
	cache := NewEmailCache()

	_, ok := cache.FetchedAt("u1")
	assert.False(t, ok)

	cache.Set("u1", []*emaildomain.EmailSummary{{ID: "m1"}})
	fetchedAt, ok := cache.FetchedAt("u1")
	assert.True(t, ok)
	assert.False(t, fetchedAt.IsZero())
}

func TestEmailCacheClear(t *testing.T) {
	cache := NewEmailCache()
	cache.Set("u1", []*emaildomain.EmailSummary{{ID: "m1"}})

	cache.Clear("u1")
	assert.Empty(t, cache.Get("u1"))
	_, ok := cache.FetchedAt("u1")
	assert.False(t, ok)
}
