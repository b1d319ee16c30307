package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"mailmate-backend/internal/assistant/domain"
	"mailmate-backend/internal/assistant/repository"
	emaildomain "mailmate-backend/internal/email/domain"
	"mailmate-backend/pkg/fuzzy"
)

const (
	greetingReply = "Hello! I'm your email assistant. How can I help you with your emails today?"

	helpReply = "Here's what I can do:\n" +
		"- \"show me my latest 5 emails\" — fetch your inbox\n" +
		"- \"show me emails from billing@example.com\" — fetch from a sender\n" +
		"- \"delete the first email\" / \"delete the email from Amazon\"\n" +
		"- \"reply to the second email\" — prepare a reply draft\n" +
		"- \"search emails about invoices\"\n" +
		"- \"status\" — what I did last"

	fallbackReply = "I'm not sure how to help with that. Try something like " +
		"\"show me my latest 5 emails\", \"delete the email from Amazon\", or " +
		"\"reply to the first email\"."

	snippetPreviewLen = 80
)

// commandProcessor implements AssistantUsecase. Each command runs through
// classify → extract → dispatch → respond; the only state shared across
// commands is the conversation store and the email cache.
type commandProcessor struct {
	store      repository.ConversationStore
	cache      repository.EmailCache
	classifier *IntentClassifier
	extractor  *EntityExtractor
	resolver   *ReferenceResolver
	emailOps   EmailOperations
}

// NewCommandProcessor creates the assistant usecase.
func NewCommandProcessor(store repository.ConversationStore, cache repository.EmailCache, emailOps EmailOperations) AssistantUsecase {
	return &commandProcessor{
		store:      store,
		cache:      cache,
		classifier: NewIntentClassifier(),
		extractor:  NewEntityExtractor(),
		resolver:   NewReferenceResolver(cache),
		emailOps:   emailOps,
	}
}

func (p *commandProcessor) ProcessCommand(ctx context.Context, userID, command string) (string, error) {
	p.store.Append(userID, domain.ConversationTurn{
		Role:      domain.RoleUser,
		Content:   command,
		Timestamp: time.Now(),
	})

	intent, confidence := p.classifier.Classify(command)
	analysis := domain.IntentAnalysis{
		Intent:          intent,
		Confidence:      confidence,
		Entities:        p.extractor.Extract(command),
		OriginalCommand: command,
	}
	log.Printf("[Assistant] user=%s intent=%s confidence=%.2f", userID, intent, confidence)

	var reply, action string
	var err error
	switch intent {
	case domain.IntentGreet:
		reply = greetingReply
	case domain.IntentHelp:
		reply = helpReply
	case domain.IntentStatus:
		reply = p.statusReply(userID)
	case domain.IntentFetchEmails:
		reply, action, err = p.fetchEmails(ctx, userID, analysis)
	case domain.IntentDeleteEmail:
		reply, action, err = p.deleteEmail(ctx, userID, analysis)
	case domain.IntentGenerateReply:
		reply, action = p.prepareReply(userID, analysis)
	case domain.IntentSearchEmail:
		reply, action, err = p.searchEmails(ctx, userID, analysis)
	default:
		// send_email and unknown fall through here.
		reply = fallbackReply
	}

	if err != nil {
		if errors.Is(err, emaildomain.ErrNotAuthenticated) {
			return "", err
		}
		// Provider failures degrade to a conversational apology.
		log.Printf("[Assistant] provider error for user %s: %v", userID, err)
		reply = fmt.Sprintf("Sorry, I ran into a problem talking to your mailbox: %v. Please try again in a moment.", err)
		action = ""
	}

	p.store.Append(userID, domain.ConversationTurn{
		Role:        domain.RoleAssistant,
		Content:     reply,
		Timestamp:   time.Now(),
		ActionTaken: action,
	})
	return reply, nil
}

func (p *commandProcessor) History(userID string) []domain.ConversationTurn {
	return p.store.History(userID)
}

func (p *commandProcessor) Reset(userID string) {
	p.store.Clear(userID)
	p.cache.Clear(userID)
}

func (p *commandProcessor) fetchEmails(ctx context.Context, userID string, analysis domain.IntentAnalysis) (string, string, error) {
	count := int64(analysis.Entities.Count)

	if sender := analysis.Entities.Sender; sender != "" {
		emails, err := p.emailOps.SearchEmails(ctx, userID, "from:"+sender, count)
		if err != nil {
			return "", "", err
		}
		if len(emails) == 0 {
			return fmt.Sprintf("I couldn't find any emails from %s.", sender), "", nil
		}
		p.cache.Set(userID, emails)
		header := fmt.Sprintf("Here are the latest emails from %s:", sender)
		return formatEmailList(header, emails), domain.ActionFetchEmails, nil
	}

	emails, err := p.emailOps.RecentEmails(ctx, userID, count)
	if err != nil {
		return "", "", err
	}
	p.cache.Set(userID, emails)
	if len(emails) == 0 {
		return "I couldn't find any messages in your inbox.", domain.ActionFetchEmails, nil
	}
	return formatEmailList("Here are your latest emails:", emails), domain.ActionFetchEmails, nil
}

func (p *commandProcessor) deleteEmail(ctx context.Context, userID string, analysis domain.IntentAnalysis) (string, string, error) {
	var target *emaildomain.EmailSummary

	switch {
	case analysis.Entities.Sender != "":
		// Take the provider's first result for the sender query; Gmail
		// returns most-recent-first.
		emails, err := p.emailOps.SearchEmails(ctx, userID, "from:"+analysis.Entities.Sender, 1)
		if err != nil {
			return "", "", err
		}
		if len(emails) == 0 {
			return fmt.Sprintf("I couldn't find any emails from %s to delete.", analysis.Entities.Sender), "", nil
		}
		target = emails[0]
	case analysis.Entities.EmailReference != "":
		resolved, err := p.resolver.Resolve(userID, referencePhrase(analysis))
		if err != nil {
			return "I'm not sure which email you mean. Fetch your emails first, then tell me which one to delete (e.g. \"delete the first email\").", "", nil
		}
		target = resolved
	default:
		return "Which email would you like to delete? You can say \"delete the first email\" or \"delete the email from Amazon\".", "", nil
	}

	if err := p.emailOps.TrashEmail(ctx, userID, target.ID); err != nil {
		return "", "", err
	}
	reply := fmt.Sprintf("Done. \"%s\" from %s has been moved to trash.", target.Subject, target.Sender)
	return reply, domain.ActionDeleteEmail, nil
}

func (p *commandProcessor) prepareReply(userID string, analysis domain.IntentAnalysis) (string, string) {
	target, err := p.resolver.Resolve(userID, referencePhrase(analysis))
	if err != nil {
		return "I need to know which email to reply to. Fetch your emails first, then say something like \"reply to the first email\".", ""
	}
	reply := fmt.Sprintf("I'll draft a reply to \"%s\" from %s. Open the reply editor to generate and send it.", target.Subject, target.Sender)
	return reply, domain.ActionGenerateReply
}

func (p *commandProcessor) searchEmails(ctx context.Context, userID string, analysis domain.IntentAnalysis) (string, string, error) {
	keyword := analysis.Entities.SubjectKeyword
	if keyword == "" {
		return "What should I search for? Try \"search emails about invoices\".", "", nil
	}

	emails, err := p.emailOps.SearchEmails(ctx, userID, keyword, int64(analysis.Entities.Count))
	if err != nil {
		return "", "", err
	}
	if len(emails) == 0 {
		return fmt.Sprintf("No emails matched \"%s\".", keyword), "", nil
	}

	// Rank by relevance to the keyword; stable so provider order breaks ties.
	sort.SliceStable(emails, func(i, j int) bool {
		return fuzzy.RelevanceScore(keyword, emails[i].Subject, emails[i].Sender) >
			fuzzy.RelevanceScore(keyword, emails[j].Subject, emails[j].Sender)
	})
	p.cache.Set(userID, emails)

	header := fmt.Sprintf("Here's what I found for \"%s\":", keyword)
	return formatEmailList(header, emails), domain.ActionSearchEmails, nil
}

func (p *commandProcessor) statusReply(userID string) string {
	action := p.store.LastAction(userID)
	if action == "" {
		return "I haven't performed any email actions for you yet. Try \"show me my latest emails\" to get started."
	}
	msg := fmt.Sprintf("The last thing I did was %s.", describeAction(action))
	if fetchedAt, ok := p.cache.FetchedAt(userID); ok {
		msg += fmt.Sprintf(" Your inbox snapshot is from %s.", fetchedAt.Format("15:04:05"))
	}
	return msg
}

// referencePhrase picks the phrase handed to the resolver: the extracted
// reference, with the contextual tag standing in for "the email we were just
// talking about" (the newest cached one), and the full command as fallback.
func referencePhrase(analysis domain.IntentAnalysis) string {
	ref := analysis.Entities.EmailReference
	switch ref {
	case "":
		return strings.ToLower(analysis.OriginalCommand)
	case domain.ReferenceContextual:
		return "latest"
	default:
		return ref
	}
}

func describeAction(action string) string {
	switch action {
	case domain.ActionFetchEmails:
		return "fetching your emails"
	case domain.ActionDeleteEmail:
		return "deleting an email"
	case domain.ActionGenerateReply:
		return "preparing a reply"
	case domain.ActionSearchEmails:
		return "searching your emails"
	default:
		return action
	}
}

func formatEmailList(header string, emails []*emaildomain.EmailSummary) string {
	var b strings.Builder
	b.WriteString(header)
	for i, email := range emails {
		fmt.Fprintf(&b, "\n%d. %s — from %s: %s", i+1, email.Subject, email.Sender, truncateSnippet(email.Snippet))
	}
	return b.String()
}

func truncateSnippet(snippet string) string {
	runes := []rune(snippet)
	if len(runes) <= snippetPreviewLen {
		return snippet
	}
	return string(runes[:snippetPreviewLen]) + "..."
}
