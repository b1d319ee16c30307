package ai

import (
	"fmt"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "mistral", "ollama" or "auto"

	// Mistral config
	MistralAPIKey string
	MistralModel  string
	MistralAPIURL string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewReplyService creates a ReplyService based on the config
// This is the factory function - switch AI provider by changing config.Provider
func NewReplyService(cfg Config) (ReplyService, error) {
	switch cfg.Provider {
	case ProviderMistral:
		if cfg.MistralAPIKey == "" {
			return nil, fmt.Errorf("MISTRAL_API_KEY is required for Mistral provider")
		}
		return NewMistralService(cfg.MistralAPIKey, cfg.MistralModel, cfg.MistralAPIURL), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// "auto": route through both providers with fallback when Mistral is
		// configured, otherwise rely on local Ollama alone
		ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
		if cfg.MistralAPIKey != "" {
			mistral := NewMistralService(cfg.MistralAPIKey, cfg.MistralModel, cfg.MistralAPIURL)
			return NewFallbackService(mistral, ollama), nil
		}
		return ollama, nil
	}
}
