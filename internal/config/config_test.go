package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database:
  driver: sqlite
  sqlite:
    path: /tmp/clipnote-test.db
llm:
  provider: gemini
  gemini_api_key: from-file
transcript:
  poll_interval: 500ms
auth:
  jwt_secret: file-secret-with-some-length
pricing:
  - provider: openrouter
    model: microsoft/wizardlm-2-8x22b
    input_per_token: 0.0000005
    output_per_token: 0.0000005
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileDefaultsAndEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("CLIPNOTE_SERVER_PORT", "8080")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/clipnote-test.db", cfg.Database.SQLite.Path)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Transcript.PollInterval)
	assert.Equal(t, 60, cfg.Transcript.MaxPollAttempts)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "microsoft/wizardlm-2-8x22b", cfg.LLM.Model)
	assert.Equal(t, ":8080", cfg.ListenAddr())

	price, ok := cfg.PriceFor("OpenRouter", "microsoft/wizardlm-2-8x22b")
	require.True(t, ok)
	assert.InDelta(t, 0.0000005, price.InputPerToken, 1e-12)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_BadFile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "database: [unterminated"))
	assert.Error(t, err)
}

func validConfig() *Config {
	c := &Config{}
	c.Database.Driver = DriverPostgres
	c.Database.Primary.DSN = "postgres://localhost/clipnote"
	c.Redis.Address = "localhost:6379"
	c.Worker.Concurrency = 2
	c.Worker.Queues = map[string]int{"ingest": 1}
	c.Auth.JWTSecret = "0123456789abcdef"
	c.Auth.TokenTTL = time.Hour
	c.LLM.Enabled = true
	c.LLM.Provider = ProviderOpenRouter
	c.LLM.APIKey = "k"
	c.LLM.Model = "m"
	c.LLM.Timeout = time.Second
	c.Transcript.PollInterval = time.Second
	c.Transcript.MaxPollAttempts = 3
	c.Transcript.RequestTimeout = time.Second
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing dsn", func(c *Config) { c.Database.Primary.DSN = "" }, "database.primary.dsn"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"sqlite needs path", func(c *Config) { c.Database.Driver = DriverSQLite }, "database.sqlite.path"},
		{"async needs redis", func(c *Config) { c.Ingest.Async = true; c.Redis.Address = "" }, "redis.address"},
		{"redis optional when sync", func(c *Config) { c.Redis.Address = "" }, ""},
		{"no queues", func(c *Config) { c.Worker.Queues = nil }, "worker.queues"},
		{"bad priority", func(c *Config) { c.Worker.Queues = map[string]int{"ingest": 0} }, "priority"},
		{"no jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret"},
		{"openrouter key", func(c *Config) { c.LLM.APIKey = "" }, "llm.api_key"},
		{"gemini key", func(c *Config) { c.LLM.Provider = ProviderGemini; c.LLM.GeminiModel = "g" }, "llm.gemini_api_key"},
		{"llm disabled skips key", func(c *Config) { c.LLM.Enabled = false; c.LLM.APIKey = "" }, ""},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "ollama" }, "llm.provider"},
		{"poll interval", func(c *Config) { c.Transcript.PollInterval = 0 }, "transcript.poll_interval"},
		{"negative price", func(c *Config) {
			c.Pricing = []PricingInfo{{Provider: "p", Model: "m", InputPerToken: -1}}
		}, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPromptOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.txt")
	require.NoError(t, os.WriteFile(path, []byte("custom prompt"), 0o600))

	assert.Equal(t, "custom prompt", LoadPromptOrDefault(path, "summary.txt", "builtin"))
	assert.Equal(t, "builtin", LoadPromptOrDefault(filepath.Join(dir, "missing.txt"), "summary.txt", "builtin"))
}
