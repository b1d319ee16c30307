package domain

// Intent is the classified purpose of a user command.
type Intent string

const (
	IntentGreet         Intent = "greet"
	IntentHelp          Intent = "help"
	IntentFetchEmails   Intent = "fetch_emails"
	IntentDeleteEmail   Intent = "delete_email"
	IntentGenerateReply Intent = "generate_reply"
	IntentSendEmail     Intent = "send_email"
	IntentSearchEmail   Intent = "search_email"
	IntentStatus        Intent = "status"
	IntentUnknown       Intent = "unknown"
)

// ReferenceContextual tags an email reference expressed with a deictic term
// ("this", "that", "it") rather than a descriptive phrase. The processor
// interprets it as the email most recently under discussion.
const ReferenceContextual = "contextual"

// EntitySet holds the structured values pulled out of a free-text command.
type EntitySet struct {
	Sender         string
	SubjectKeyword string
	Count          int // defaults to 5 when the command carries no digits
	EmailReference string
}

// IntentAnalysis is the transient result of one classification pass.
// It lives for a single command-processing cycle and is never persisted.
type IntentAnalysis struct {
	Intent          Intent
	Confidence      float64
	Entities        EntitySet
	OriginalCommand string
}
