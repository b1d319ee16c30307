package ai

import (
	"context"
)

// ReplyService is the interface for AI reply generation.
// Implement this interface to add new AI providers (Mistral, Ollama, OpenAI, etc.)
type ReplyService interface {
	GenerateReply(ctx context.Context, emailContent, conversationContext string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderMistral ProviderType = "mistral"
	ProviderOllama  ProviderType = "ollama"
	ProviderAuto    ProviderType = "auto"
)

// replySystemPrompt frames every generation request.
const replySystemPrompt = "You are a professional and helpful email assistant. Write clear, concise, and context-aware replies that are ready to be sent."

// FallbackReply is surfaced when no provider can produce a draft, so the
// user always gets something editable instead of an error page.
const FallbackReply = "[AI Unavailable] The AI service returned an error. Please try again later or edit this suggested reply:\n\nThanks for the update. I will review and follow up with next steps shortly.\n\nBest regards,\n[Your Name]"
