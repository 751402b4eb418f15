package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LLM providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	Provider       string  `mapstructure:"provider"`
	Model          string  `mapstructure:"model"`
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Database struct {
		Driver  string `mapstructure:"driver"`
		Primary struct {
			DSN string `mapstructure:"dsn"`
		} `mapstructure:"primary"`
		SQLite struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"database"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	LLM struct {
		Enabled       bool          `mapstructure:"enabled"`
		Provider      string        `mapstructure:"provider"` // "openrouter" or "gemini"
		BaseURL       string        `mapstructure:"base_url"`
		APIKey        string        `mapstructure:"api_key"`
		Model         string        `mapstructure:"model"`
		GeminiAPIKey  string        `mapstructure:"gemini_api_key"`
		GeminiModel   string        `mapstructure:"gemini_model"`
		Timeout       time.Duration `mapstructure:"timeout"`
		SummaryPrompt string        `mapstructure:"summary_prompt"` // Path to the summary system prompt
		ChatPrompt    string        `mapstructure:"chat_prompt"`    // Path to the chat system prompt
	} `mapstructure:"llm"`

	Transcript struct {
		CaptionAPIURL      string        `mapstructure:"caption_api_url"`
		DictationAPIURL    string        `mapstructure:"dictation_api_url"`
		DictationAPIKey    string        `mapstructure:"dictation_api_key"`
		DictationAuthToken string        `mapstructure:"dictation_auth_token"`
		DictationUserID    string        `mapstructure:"dictation_user_id"`
		CountryCode        string        `mapstructure:"country_code"`
		PollInterval       time.Duration `mapstructure:"poll_interval"`
		MaxPollAttempts    int           `mapstructure:"max_poll_attempts"`
		RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"transcript"`

	Ingest struct {
		Async bool `mapstructure:"async"` // Process captured URLs on the worker
	} `mapstructure:"ingest"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	Server struct {
		Addr    string `mapstructure:"addr"`
		Port    int    `mapstructure:"port"`
		Metrics bool   `mapstructure:"metrics"`
	} `mapstructure:"server"`

	Taxonomy struct {
		Path string `mapstructure:"path"` // Empty uses the built-in taxonomy
	} `mapstructure:"taxonomy"`

	CLI struct {
		UserID int64 `mapstructure:"user_id"`
	} `mapstructure:"cli"`

	// Pricing is a list because model names contain dots, which viper reads as key separators.
	Pricing []PricingInfo `mapstructure:"pricing"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.primary.dsn", "")
	v.SetDefault("database.sqlite.path", "clipnote.db")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.queues", map[string]int{"ingest": 6, "tags": 3, "default": 1})

	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.provider", ProviderOpenRouter)
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "microsoft/wizardlm-2-8x22b")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.summary_prompt", "summary.txt")
	v.SetDefault("llm.chat_prompt", "chat.txt")

	v.SetDefault("transcript.caption_api_url", "")
	v.SetDefault("transcript.dictation_api_url", "")
	v.SetDefault("transcript.dictation_api_key", "")
	v.SetDefault("transcript.dictation_auth_token", "")
	v.SetDefault("transcript.dictation_user_id", "")
	v.SetDefault("transcript.country_code", "US")
	v.SetDefault("transcript.poll_interval", 3*time.Second)
	v.SetDefault("transcript.max_poll_attempts", 60)
	v.SetDefault("transcript.request_timeout", 30*time.Second)

	v.SetDefault("ingest.async", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)

	v.SetDefault("server.addr", "")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.metrics", true)

	v.SetDefault("taxonomy.path", "")
	v.SetDefault("cli.user_id", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads configuration from .env files, config.yaml and the environment.
// An explicit configFile replaces the search of the default locations.
func LoadConfig(configFile string) (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Could not load %s: %v", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clipnote"))
		}
	}

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("CLIPNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Well-known provider variables work without the prefix.
	_ = v.BindEnv("llm.api_key", "CLIPNOTE_LLM_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("llm.gemini_api_key", "CLIPNOTE_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("auth.jwt_secret", "CLIPNOTE_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("database.primary.dsn", "CLIPNOTE_DATABASE_PRIMARY_DSN", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("Config file not found, using defaults and environment.")
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

// PriceFor looks up token pricing for a provider and model.
func (c *Config) PriceFor(provider, model string) (PricingInfo, bool) {
	for _, p := range c.Pricing {
		if strings.EqualFold(p.Provider, provider) && strings.EqualFold(p.Model, model) {
			return p, true
		}
	}
	return PricingInfo{}, false
}

// ListenAddr is the address the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
