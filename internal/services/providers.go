package services

import (
	"context"
	"fmt"

	"clipnote/internal/config"
	"clipnote/internal/costtracker"

	log "github.com/sirupsen/logrus"
)

// NewCompletionService selects the configured LLM provider. A disabled LLM
// yields the noop service so every caller takes its local path.
func NewCompletionService(ctx context.Context, cfg *config.Config, tracker costtracker.CostTracker) (CompletionService, error) {
	if !cfg.LLM.Enabled {
		log.Info("LLM disabled; using local summaries and composed chat replies")
		return NewNoopCompletionService(), nil
	}

	switch cfg.LLM.Provider {
	case config.ProviderOpenRouter:
		return NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
			AppName: "clipnote",
		}, tracker), nil
	case config.ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout, tracker)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
