package domain

// EmailSummary is the provider-agnostic view of a message used by the
// assistant: just enough to list, reference and act on an email.
// Immutable once constructed from a provider response.
type EmailSummary struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
}

// MessageDetail extends EmailSummary with the headers and body needed to
// build a threaded reply.
type MessageDetail struct {
	EmailSummary
	From            string // raw From header, "Name <address>"
	MessageIDHeader string // original Message-ID, for In-Reply-To/References
	ThreadID        string
	Body            string
}
