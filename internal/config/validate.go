package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Validate checks the settings each enabled feature depends on.
func (c *Config) Validate() error {
	// Database config
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Primary.DSN == "" {
			return errors.New("database.primary.dsn is required when database.driver is postgres")
		}
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return errors.New("database.sqlite.path is required when database.driver is sqlite")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	// Redis is needed only to hand work to the worker.
	if c.Ingest.Async && c.Redis.Address == "" {
		return errors.New("redis.address is required when ingest.async is true")
	}

	// Worker config
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	// Auth config
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		log.Warn("auth.jwt_secret is shorter than 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	// LLM config
	if c.LLM.Enabled {
		switch c.LLM.Provider {
		case ProviderOpenRouter:
			if c.LLM.APIKey == "" {
				return errors.New("llm.api_key is required when llm.provider is openrouter")
			}
			if c.LLM.Model == "" {
				return errors.New("llm.model is required when llm.provider is openrouter")
			}
		case ProviderGemini:
			if c.LLM.GeminiAPIKey == "" {
				return errors.New("llm.gemini_api_key is required when llm.provider is gemini")
			}
			if c.LLM.GeminiModel == "" {
				return errors.New("llm.gemini_model is required when llm.provider is gemini")
			}
		default:
			return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenRouter, ProviderGemini, c.LLM.Provider)
		}
		if c.LLM.Timeout <= 0 {
			return errors.New("llm.timeout must be positive")
		}
	}

	// Transcript config
	if c.Transcript.PollInterval <= 0 {
		return errors.New("transcript.poll_interval must be positive")
	}
	if c.Transcript.MaxPollAttempts <= 0 {
		return errors.New("transcript.max_poll_attempts must be positive")
	}
	if c.Transcript.RequestTimeout <= 0 {
		return errors.New("transcript.request_timeout must be positive")
	}

	// Pricing config (optional, but if present, must be valid)
	for _, p := range c.Pricing {
		if p.Provider == "" || p.Model == "" {
			return errors.New("pricing entries need both provider and model")
		}
		if p.InputPerToken < 0 || p.OutputPerToken < 0 {
			return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", p.Provider, p.Model)
		}
	}

	return nil
}
