package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	assistantdomain "mailmate-backend/internal/assistant/domain"
	emaildomain "mailmate-backend/internal/email/domain"
)

// maxTurns caps each user's conversation log. Appending beyond the cap
// evicts the oldest turns first.
const maxTurns = 20

// memoryConversationStore is the in-memory ConversationStore. The mutex
// serializes appends so concurrent requests for the same user cannot corrupt
// the cap invariant.
type memoryConversationStore struct {
	mu    sync.RWMutex
	turns map[string][]assistantdomain.ConversationTurn
}

// NewConversationStore creates an in-memory conversation store.
func NewConversationStore() ConversationStore {
	return &memoryConversationStore{
		turns: make(map[string][]assistantdomain.ConversationTurn),
	}
}

func (s *memoryConversationStore) Append(userID string, turn assistantdomain.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := append(s.turns[userID], turn)
	if len(seq) > maxTurns {
		seq = seq[len(seq)-maxTurns:]
	}
	s.turns[userID] = seq
}

func (s *memoryConversationStore) History(userID string) []assistantdomain.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.turns[userID]
	out := make([]assistantdomain.ConversationTurn, len(seq))
	copy(out, seq)
	return out
}

func (s *memoryConversationStore) RecentContext(userID string, n int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.turns[userID]
	if len(seq) == 0 {
		return ""
	}
	if n > 0 && len(seq) > n {
		seq = seq[len(seq)-n:]
	}

	var b strings.Builder
	for i, turn := range seq {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", turn.Role, turn.Content)
	}
	return b.String()
}

func (s *memoryConversationStore) LastAction(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.turns[userID]
	for i := len(seq) - 1; i >= 0; i-- {
		if seq[i].ActionTaken != "" {
			return seq[i].ActionTaken
		}
	}
	return ""
}

func (s *memoryConversationStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, userID)
}

// cachedInbox is one user's fetch snapshot.
type cachedInbox struct {
	emails    []*emaildomain.EmailSummary
	fetchedAt time.Time
}

// memoryEmailCache is the in-memory EmailCache. Snapshots are replaced
// wholesale under the lock, so readers never observe a partial update.
type memoryEmailCache struct {
	mu      sync.RWMutex
	inboxes map[string]cachedInbox
}

// NewEmailCache creates an in-memory email cache.
func NewEmailCache() EmailCache {
	return &memoryEmailCache{
		inboxes: make(map[string]cachedInbox),
	}
}

func (c *memoryEmailCache) Set(userID string, emails []*emaildomain.EmailSummary) {
	snapshot := make([]*emaildomain.EmailSummary, len(emails))
	copy(snapshot, emails)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inboxes[userID] = cachedInbox{emails: snapshot, fetchedAt: time.Now()}
}

func (c *memoryEmailCache) Get(userID string) []*emaildomain.EmailSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.inboxes[userID]
	if !ok {
		return nil
	}
	out := make([]*emaildomain.EmailSummary, len(entry.emails))
	copy(out, entry.emails)
	return out
}

func (c *memoryEmailCache) FetchedAt(userID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.inboxes[userID]
	if !ok {
		return time.Time{}, false
	}
	return entry.fetchedAt, true
}

func (c *memoryEmailCache) Clear(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inboxes, userID)
}
