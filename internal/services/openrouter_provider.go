package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clipnote/internal/costtracker"
	"clipnote/internal/store"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "microsoft/wizardlm-2-8x22b"
	defaultLLMTimeout        = 30 * time.Second
)

// ChatCompletionCreator is the slice of the go-openai client the provider uses.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenRouterConfig configures the OpenAI-compatible OpenRouter endpoint.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	AppName string // Sent as X-Title for OpenRouter attribution
	Referer string // Sent as HTTP-Referer
}

// OpenRouterProvider implements CompletionService against OpenRouter.
type OpenRouterProvider struct {
	client  ChatCompletionCreator
	model   string
	timeout time.Duration
	tracker costtracker.CostTracker
}

// NewOpenRouterProvider builds the provider. Without an API key the provider is
// returned disabled rather than failing.
func NewOpenRouterProvider(cfg OpenRouterConfig, tracker costtracker.CostTracker) *OpenRouterProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenRouterModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLLMTimeout
	}
	if tracker == nil {
		tracker = costtracker.New(nil, nil)
	}
	p := &OpenRouterProvider{model: cfg.Model, timeout: cfg.Timeout, tracker: tracker}
	if cfg.APIKey == "" {
		log.Warn("OpenRouter API key not provided. OpenRouter provider will be disabled.")
		return p
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultOpenRouterBaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &headerTransport{base: http.DefaultTransport, referer: cfg.Referer, title: cfg.AppName},
	}
	p.client = openai.NewClientWithConfig(clientCfg)
	log.Infof("OpenRouter provider initialized with model %s (%s)", cfg.Model, clientCfg.BaseURL)
	return p
}

// NewOpenRouterProviderWithClient wires an existing client, mainly for tests.
func NewOpenRouterProviderWithClient(client ChatCompletionCreator, model string, tracker costtracker.CostTracker) *OpenRouterProvider {
	if tracker == nil {
		tracker = costtracker.New(nil, nil)
	}
	return &OpenRouterProvider{client: client, model: model, timeout: defaultLLMTimeout, tracker: tracker}
}

// Name returns the provider name.
func (p *OpenRouterProvider) Name() string { return "openrouter" }

// ModelName returns the specific model identifier.
func (p *OpenRouterProvider) ModelName() string { return p.model }

// Status returns the configured status without calling the API.
func (p *OpenRouterProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

// CheckAvailability probes the API with a minimal request.
func (p *OpenRouterProvider) CheckAvailability(ctx context.Context) store.ProviderStatus {
	return probe(ctx, p)
}

func (p *OpenRouterProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("openrouter: %w", ErrLLMUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenRouter API error generating completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenRouter API returned no choices")
	}

	// --- Cost Tracking Instrumentation ---
	if err := p.tracker.Record(ctx, costtracker.Usage{
		Provider:     p.Name(),
		Model:        p.model,
		ServiceType:  opts.ServiceType,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}); err != nil {
		log.Errorf("Failed to record AI usage log for %s completion: %v", opts.ServiceType, err)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case ChatMessageRoleSystem:
			role = openai.ChatMessageRoleSystem
		case ChatMessageRoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// headerTransport adds the OpenRouter attribution headers.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer == "" && t.title == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}

var _ CompletionService = (*OpenRouterProvider)(nil)
