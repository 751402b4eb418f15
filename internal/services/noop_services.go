package services

import (
	"context"

	"clipnote/internal/store"
)

// NoopCompletionService stands in when the LLM is disabled. Every caller then
// takes its local path.
type NoopCompletionService struct{}

func NewNoopCompletionService() CompletionService {
	return &NoopCompletionService{}
}

func (s *NoopCompletionService) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	return "", ErrLLMUnavailable
}

func (s *NoopCompletionService) CheckAvailability(ctx context.Context) store.ProviderStatus {
	return store.ProviderStatusDisabled
}

func (s *NoopCompletionService) Status() store.ProviderStatus { return store.ProviderStatusDisabled }
func (s *NoopCompletionService) Name() string                 { return "none" }
func (s *NoopCompletionService) ModelName() string            { return "" }
