package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	netmail "net/mail"
	"strings"
	"time"

	emaildomain "mailmate-backend/internal/email/domain"

	"github.com/emersion/go-message/mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Header fallbacks for messages with missing metadata.
const (
	noSubject  = "No Subject"
	noSender   = "Unknown Sender"
	noSnippet  = "No content available."
	gmailUser  = "me"
	inboxLabel = "INBOX"
)

type Service struct {
	clientID     string
	clientSecret string
}

// notifyTokenSource wraps an oauth2 token source and invokes a callback
// whenever the access token changes, so refreshed tokens get persisted.
type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback emaildomain.TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// getGmailService creates a Gmail client with the user's tokens.
func (s *Service) getGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh emaildomain.TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// ListMessages returns message summaries in the provider's order
// (most-recent-first). An empty query lists the inbox; otherwise query uses
// Gmail search syntax.
func (s *Service) ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int64, onTokenRefresh emaildomain.TokenUpdateFunc) ([]*emaildomain.EmailSummary, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 5
	}

	listCall := srv.Users.Messages.List(gmailUser).MaxResults(maxResults)
	if query != "" {
		listCall = listCall.Q(query)
	} else {
		listCall = listCall.LabelIds(inboxLabel)
	}

	resp, err := listCall.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %v", err)
	}

	summaries := make([]*emaildomain.EmailSummary, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		full, err := srv.Users.Messages.Get(gmailUser, msg.Id).
			Format("metadata").MetadataHeaders("Subject", "From").Do()
		if err != nil {
			log.Printf("[Gmail] skipping message %s: %v", msg.Id, err)
			continue
		}
		summaries = append(summaries, summarizeMessage(full))
	}

	return summaries, nil
}

// GetMessage fetches a full message with the headers needed to reply.
func (s *Service) GetMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh emaildomain.TokenUpdateFunc) (*emaildomain.MessageDetail, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get(gmailUser, messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}

	from := getHeader(msg.Payload.Headers, "From")
	messageIDHeader := getHeader(msg.Payload.Headers, "Message-ID")
	if messageIDHeader == "" {
		messageIDHeader = getHeader(msg.Payload.Headers, "Message-Id")
	}

	return &emaildomain.MessageDetail{
		EmailSummary:    *summarizeMessage(msg),
		From:            from,
		MessageIDHeader: messageIDHeader,
		ThreadID:        msg.ThreadId,
		Body:            getMessageBody(msg.Payload),
	}, nil
}

// TrashMessage moves a message to trash, which is safer than a permanent
// delete.
func (s *Service) TrashMessage(ctx context.Context, accessToken, refreshToken, messageID string, onTokenRefresh emaildomain.TokenUpdateFunc) error {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	if _, err := srv.Users.Messages.Trash(gmailUser, messageID).Do(); err != nil {
		return fmt.Errorf("unable to trash message: %v", err)
	}
	return nil
}

// SendReply sends replyText as a threaded reply to messageID and returns the
// id of the sent message.
func (s *Service) SendReply(ctx context.Context, accessToken, refreshToken, messageID, replyText string, onTokenRefresh emaildomain.TokenUpdateFunc) (string, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return "", err
	}

	original, err := s.GetMessage(ctx, accessToken, refreshToken, messageID, onTokenRefresh)
	if err != nil {
		return "", err
	}

	recipient, err := netmail.ParseAddress(original.From)
	if err != nil {
		return "", fmt.Errorf("unable to determine recipient from original message: %v", err)
	}

	raw, err := buildReplyMIME(recipient, original, replyText)
	if err != nil {
		return "", err
	}

	sent, err := srv.Users.Messages.Send(gmailUser, &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: original.ThreadID,
	}).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send reply: %v", err)
	}

	return sent.Id, nil
}

// buildReplyMIME assembles the reply message: "Re:" subject plus
// In-Reply-To/References headers so providers thread it correctly.
func buildReplyMIME(recipient *netmail.Address, original *emaildomain.MessageDetail, replyText string) ([]byte, error) {
	subject := original.Subject
	if subject == noSubject {
		subject = ""
	}
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("To", []*mail.Address{recipient})
	h.SetSubject(subject)
	if original.MessageIDHeader != "" {
		h.Set("In-Reply-To", original.MessageIDHeader)
		h.Set("References", original.MessageIDHeader)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("unable to build reply message: %v", err)
	}
	if _, err := w.Write([]byte(replyText)); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ValidateToken validates the access token by making a simple API call.
func (s *Service) ValidateToken(ctx context.Context, accessToken, refreshToken string, onTokenRefresh emaildomain.TokenUpdateFunc) error {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	if _, err := srv.Users.GetProfile(gmailUser).Do(); err != nil {
		return errors.New("invalid or expired access token")
	}
	return nil
}

// Helper functions

func summarizeMessage(msg *gmail.Message) *emaildomain.EmailSummary {
	subject := getHeader(msg.Payload.Headers, "Subject")
	if subject == "" {
		subject = noSubject
	}
	sender := getHeader(msg.Payload.Headers, "From")
	if sender == "" {
		sender = noSender
	}
	snippet := msg.Snippet
	if snippet == "" {
		snippet = noSnippet
	}

	return &emaildomain.EmailSummary{
		ID:      msg.Id,
		Sender:  sender,
		Subject: subject,
		Snippet: snippet,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// getMessageBody prefers the text/plain part and falls back to text/html.
func getMessageBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	var htmlBody, plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				data, err := base64.URLEncoding.DecodeString(part.Body.Data)
				if err == nil {
					switch part.MimeType {
					case "text/plain":
						plainBody = string(data)
					case "text/html":
						htmlBody = string(data)
					}
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	return htmlBody
}
