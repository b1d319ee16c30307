package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService implements smart AI provider routing with fallback
// - Reply generation: Mistral first (better quality), fallback to Ollama
type FallbackService struct {
	mistral ReplyService
	ollama  *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(mistral ReplyService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		mistral: mistral,
		ollama:  ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors
	if _, ok := err.(net.Error); ok {
		return true
	}

	// Check for common connection error messages
	errStr := err.Error()
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// GenerateReply tries Mistral first (better quality), falls back to Ollama on
// quota or connection errors
func (f *FallbackService) GenerateReply(ctx context.Context, emailContent, conversationContext string) (string, error) {
	if f.mistral != nil {
		log.Println("[AI] Trying Mistral for reply generation...")
		result, err := f.mistral.GenerateReply(ctx, emailContent, conversationContext)
		if err == nil {
			log.Println("[AI] Mistral reply generation successful")
			return result, nil
		}

		if isQuotaError(err) {
			log.Printf("[AI] Mistral quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Mistral error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		log.Println("[AI] Using Ollama for reply generation...")
		result, err := f.ollama.GenerateReply(ctx, emailContent, conversationContext)
		if err == nil {
			log.Println("[AI] Ollama reply generation successful")
			return result, nil
		}

		// If Ollama also fails with connection error, try Mistral again
		if isConnectionError(err) && f.mistral != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Mistral", err)
			return f.mistral.GenerateReply(ctx, emailContent, conversationContext)
		}

		return "", fmt.Errorf("ollama reply generation failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available for reply generation")
}
