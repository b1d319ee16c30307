package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MistralService implements ReplyService using Mistral's chat completions API
type MistralService struct {
	apiKey string
	model  string
	apiURL string
	client *http.Client
}

// NewMistralService creates a new Mistral service
func NewMistralService(apiKey, model, apiURL string) *MistralService {
	if model == "" {
		model = "mistral-small"
	}
	if apiURL == "" {
		apiURL = "https://api.mistral.ai/v1/chat/completions"
	}
	return &MistralService{
		apiKey: apiKey,
		model:  model,
		apiURL: apiURL,
		client: &http.Client{},
	}
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type mistralResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateReply implements ReplyService
func (m *MistralService) GenerateReply(ctx context.Context, emailContent, conversationContext string) (string, error) {
	payload := mistralRequest{
		Model: m.model,
		Messages: []mistralMessage{
			{Role: "system", Content: replySystemPrompt},
			{Role: "user", Content: buildReplyPrompt(emailContent, conversationContext)},
		},
		Temperature: 0.7,
		MaxTokens:   150,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result mistralResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("mistral returned no choices")
	}

	reply := strings.TrimSpace(result.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("mistral returned an empty reply")
	}

	return reply, nil
}

// buildReplyPrompt is shared across providers so switching providers does not
// change the tone of the drafts.
func buildReplyPrompt(emailContent, conversationContext string) string {
	var b strings.Builder
	if conversationContext != "" {
		b.WriteString("Recent conversation with the user:\n")
		b.WriteString(conversationContext)
		b.WriteString("\n\n")
	}
	b.WriteString("Write a reply to the following email:\n\n")
	b.WriteString(emailContent)
	return b.String()
}
