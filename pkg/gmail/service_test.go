package gmail

import (
	"encoding/base64"
	netmail "net/mail"
	"testing"

	emaildomain "mailmate-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestSummarizeMessageDefaults(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m1",
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{}},
	}

	summary := summarizeMessage(msg)
	assert.Equal(t, "m1", summary.ID)
	assert.Equal(t, noSubject, summary.Subject)
	assert.Equal(t, noSender, summary.Sender)
	assert.Equal(t, noSnippet, summary.Snippet)
}

func TestSummarizeMessageWithHeaders(t *testing.T) {
	msg := &gmail.Message{
		Id:      "m2",
		Snippet: "Are you free around noon",
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
			{Name: "Subject", Value: "Lunch tomorrow?"},
			{Name: "From", Value: "bob@example.com"},
		}},
	}

	summary := summarizeMessage(msg)
	assert.Equal(t, "Lunch tomorrow?", summary.Subject)
	assert.Equal(t, "bob@example.com", summary.Sender)
	assert.Equal(t, "Are you free around noon", summary.Snippet)
}

func TestGetMessageBodyPrefersPlainText(t *testing.T) {
	encode := func(s string) string {
		return base64.URLEncoding.EncodeToString([]byte(s))
	}

	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>hi</p>")}},
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("hi")}},
		},
	}

	assert.Equal(t, "hi", getMessageBody(payload))
	assert.Empty(t, getMessageBody(nil))
}

func TestBuildReplyMIME(t *testing.T) {
	recipient := &netmail.Address{Name: "Bob", Address: "bob@example.com"}
	original := &emaildomain.MessageDetail{
		EmailSummary:    emaildomain.EmailSummary{Subject: "Lunch tomorrow?"},
		From:            "Bob <bob@example.com>",
		MessageIDHeader: "<orig-123@mail.example.com>",
	}

	raw, err := buildReplyMIME(recipient, original, "See you at noon.")
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "Subject: Re: Lunch tomorrow?")
	assert.Contains(t, body, "bob@example.com")
	assert.Contains(t, body, "In-Reply-To: <orig-123@mail.example.com>")
	assert.Contains(t, body, "References: <orig-123@mail.example.com>")
	assert.Contains(t, body, "See you at noon.")
}

func TestBuildReplyMIMEKeepsExistingRePrefix(t *testing.T) {
	recipient := &netmail.Address{Address: "bob@example.com"}
	original := &emaildomain.MessageDetail{
		EmailSummary: emaildomain.EmailSummary{Subject: "Re: Lunch tomorrow?"},
		From:         "bob@example.com",
	}

	raw, err := buildReplyMIME(recipient, original, "ok")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Re: Re:")
}

func TestBuildReplyMIMEPlaceholderSubject(t *testing.T) {
	recipient := &netmail.Address{Address: "bob@example.com"}
	original := &emaildomain.MessageDetail{
		EmailSummary: emaildomain.EmailSummary{Subject: noSubject},
		From:         "bob@example.com",
	}

	raw, err := buildReplyMIME(recipient, original, "ok")
	require.NoError(t, err)
	// The placeholder is not echoed back into the reply subject.
	assert.NotContains(t, string(raw), noSubject)
	assert.Contains(t, string(raw), "Subject: Re:")
}
