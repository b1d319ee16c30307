package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"mailmate-backend/internal/assistant/domain"
)

// defaultFetchCount is used when a command carries no digit sequence.
// A bare "latest"/"recent" token does not set a count.
const defaultFetchCount = 5

var (
	senderPattern  = regexp.MustCompile(`from\s+([\w.@ -]+)`)
	subjectPattern = regexp.MustCompile(`(?:about|subject|regarding)\s+"?([^"]+)`)
	countPattern   = regexp.MustCompile(`\d+`)
)

// Deictic terms mark a reference to the email currently under discussion;
// positional terms mark a slot in the cached list. Matched as substrings of
// the lower-cased command.
var (
	contextualTerms = []string{"this", "that", "it", "the email", "that email"}
	positionalTerms = []string{"first", "second", "third", "last", "latest"}
)

// EntityExtractor pulls structured fields out of raw command text via
// pattern matching. Pure, no side effects.
type EntityExtractor struct{}

func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract returns the entity set for a command. Sender and subject keyword
// come from the first pattern match; count from the first integer literal.
// The email reference is either the "contextual" tag or the lower-cased
// command itself when a positional term is present.
func (e *EntityExtractor) Extract(command string) domain.EntitySet {
	cmd := strings.ToLower(command)
	entities := domain.EntitySet{Count: defaultFetchCount}

	if m := senderPattern.FindStringSubmatch(cmd); m != nil {
		entities.Sender = strings.TrimSpace(m[1])
	}
	if m := subjectPattern.FindStringSubmatch(cmd); m != nil {
		entities.SubjectKeyword = strings.TrimSpace(m[1])
	}
	if m := countPattern.FindString(cmd); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			entities.Count = n
		}
	}

	for _, term := range contextualTerms {
		if strings.Contains(cmd, term) {
			entities.EmailReference = domain.ReferenceContextual
			break
		}
	}
	if entities.EmailReference == "" {
		for _, term := range positionalTerms {
			if strings.Contains(cmd, term) {
				entities.EmailReference = cmd
				break
			}
		}
	}

	return entities
}
