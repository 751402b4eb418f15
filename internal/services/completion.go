package services

import (
	"context"
	"errors"
	"strings"

	"clipnote/internal/store" // For ProviderStatus

	log "github.com/sirupsen/logrus"
)

// ErrLLMUnavailable is returned when no completion provider can serve a request.
var ErrLLMUnavailable = errors.New("AI service is currently unavailable")

// ChatMessageRole defines the role of the message sender (system, user, assistant).
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant" // Or "model" for Gemini
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// CompletionOptions tunes a single completion request.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
	ServiceType string // Recorded with the usage log, e.g. "summary"
}

// CompletionService defines the interface for generating text completions or chat responses.
type CompletionService interface {
	GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
	// CheckAvailability sends a tiny probe request and reports whether the
	// provider answered with any text.
	CheckAvailability(ctx context.Context) store.ProviderStatus
	Status() store.ProviderStatus
	Name() string      // Provider name (e.g., "openrouter", "gemini")
	ModelName() string // Specific model used
}

const probeMessage = "Hello"

var probeOptions = CompletionOptions{MaxTokens: 10, ServiceType: "availability"}

// probe runs the availability check shared by every provider.
func probe(ctx context.Context, svc CompletionService) store.ProviderStatus {
	if svc.Status() == store.ProviderStatusDisabled {
		return store.ProviderStatusDisabled
	}
	out, err := svc.GenerateChatCompletion(ctx, []ChatMessage{{Role: ChatMessageRoleUser, Content: probeMessage}}, probeOptions)
	if err != nil {
		log.Debugf("%s availability probe failed: %v", svc.Name(), err)
		return store.ProviderStatusInactive
	}
	if strings.TrimSpace(out) == "" {
		return store.ProviderStatusInactive
	}
	return store.ProviderStatusActive
}

// isAvailable is a convenience wrapper for callers that only branch on the probe.
func isAvailable(ctx context.Context, svc CompletionService) bool {
	if svc == nil {
		return false
	}
	return svc.CheckAvailability(ctx) == store.ProviderStatusActive
}
