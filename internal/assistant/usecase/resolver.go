package usecase

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"mailmate-backend/internal/assistant/repository"
	emaildomain "mailmate-backend/internal/email/domain"
)

// ErrNoMatch is the not-found outcome of reference resolution. It is a
// normal result, not a failure: the processor turns it into a clarification
// request.
var ErrNoMatch = errors.New("no cached email matches the reference")

var ordinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)?`)

// ReferenceResolver maps a reference phrase ("the first one", "2nd",
// "amazon") to a concrete record in the user's cached fetch snapshot.
// Resolution is deterministic for a given snapshot and phrase.
type ReferenceResolver struct {
	cache repository.EmailCache
}

func NewReferenceResolver(cache repository.EmailCache) *ReferenceResolver {
	return &ReferenceResolver{cache: cache}
}

// Resolve applies, in priority order: front-of-list terms, end-of-list
// terms, ordinal numbers, then a case-insensitive substring scan over
// sender and subject in cache order.
func (r *ReferenceResolver) Resolve(userID, reference string) (*emaildomain.EmailSummary, error) {
	emails := r.cache.Get(userID)
	if len(emails) == 0 {
		return nil, ErrNoMatch
	}
	ref := strings.ToLower(reference)

	for _, term := range []string{"first", "latest", "recent", "newest"} {
		if strings.Contains(ref, term) {
			return emails[0], nil
		}
	}
	if strings.Contains(ref, "last") || strings.Contains(ref, "oldest") {
		return emails[len(emails)-1], nil
	}
	if m := ordinalPattern.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(emails) {
			return nil, ErrNoMatch
		}
		return emails[n-1], nil
	}

	for _, email := range emails {
		if strings.Contains(strings.ToLower(email.Sender), ref) ||
			strings.Contains(strings.ToLower(email.Subject), ref) {
			return email, nil
		}
	}
	return nil, ErrNoMatch
}
