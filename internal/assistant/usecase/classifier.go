package usecase

import (
	"strings"

	"mailmate-backend/internal/assistant/domain"
)

// intentTriggers pairs an intent with its trigger phrases. Confidence for an
// intent is the share of its phrases found as substrings in the lower-cased
// command. Slice order is the tie-break: the first intent to reach the top
// score wins, so keep domain intents ahead of greet (whose "hi" trigger
// matches inside words like "this").
type intentTriggers struct {
	intent  domain.Intent
	phrases []string
}

var triggerTable = []intentTriggers{
	{domain.IntentFetchEmails, []string{"show", "fetch", "latest", "recent", "inbox", "check my email", "my emails", "list"}},
	{domain.IntentDeleteEmail, []string{"delete", "remove", "trash", "get rid of"}},
	{domain.IntentGenerateReply, []string{"reply", "respond", "write back", "answer"}},
	{domain.IntentSendEmail, []string{"send", "compose", "new email", "draft an email"}},
	{domain.IntentSearchEmail, []string{"search", "find", "look for", "emails about"}},
	{domain.IntentStatus, []string{"status", "what did you do", "last action", "what have you done"}},
	{domain.IntentHelp, []string{"help", "what can you do", "how do", "commands"}},
	{domain.IntentGreet, []string{"hello", "hi", "hey", "good morning", "good afternoon"}},
}

// IntentClassifier maps raw command text to an intent and a confidence score
// using keyword-overlap scoring. Pure, no side effects.
type IntentClassifier struct{}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Classify returns the best-scoring intent and its confidence in [0,1].
// Empty or keyword-free commands classify as unknown with confidence 0.
func (c *IntentClassifier) Classify(command string) (domain.Intent, float64) {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if cmd == "" {
		return domain.IntentUnknown, 0
	}

	best := domain.IntentUnknown
	bestScore := 0.0
	for _, entry := range triggerTable {
		hits := 0
		for _, phrase := range entry.phrases {
			if strings.Contains(cmd, phrase) {
				hits++
			}
		}
		// Strictly greater: on a tie the earlier entry keeps the win.
		score := float64(hits) / float64(len(entry.phrases))
		if score > bestScore {
			best = entry.intent
			bestScore = score
		}
	}
	return best, bestScore
}
