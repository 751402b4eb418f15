package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clipnote/internal/costtracker"
	"clipnote/internal/store" // ProviderStatus is defined here

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider implements CompletionService using the Google Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	tracker costtracker.CostTracker
}

// NewGeminiProvider creates a new Gemini completion provider.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, timeout time.Duration, tracker costtracker.CostTracker) (*GeminiProvider, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	if tracker == nil {
		tracker = costtracker.New(nil, nil)
	}
	p := &GeminiProvider{model: modelName, timeout: timeout, tracker: tracker}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini provider will be disabled.")
		return p, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		// Don't return the provider if client creation fails
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	p.client = client
	log.Infof("Gemini provider initialized with model %s", modelName)
	return p, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.model }

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

// CheckAvailability probes the API with a minimal request.
func (p *GeminiProvider) CheckAvailability(ctx context.Context) store.ProviderStatus {
	return probe(ctx, p)
}

// GenerateChatCompletion maps system messages to the system instruction and
// replays the rest as chat history ending in the last message.
func (p *GeminiProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("gemini: %w", ErrLLMUnavailable)
	}
	system, history, last, err := splitGeminiMessages(messages)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := p.client.GenerativeModel(p.model)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		model.SetTopP(opts.TopP)
	}

	session := model.StartChat()
	session.History = history
	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("Gemini API error generating completion: %w", err)
	}

	if resp.UsageMetadata != nil {
		if err := p.tracker.Record(ctx, costtracker.Usage{
			Provider:     p.Name(),
			Model:        p.model,
			ServiceType:  opts.ServiceType,
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}); err != nil {
			log.Errorf("Failed to record AI usage log for %s completion: %v", opts.ServiceType, err)
		}
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("Gemini API returned no text")
	}
	return text, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func splitGeminiMessages(messages []ChatMessage) (string, []*genai.Content, string, error) {
	var system []string
	var turns []ChatMessage
	for _, m := range messages {
		if m.Role == ChatMessageRoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		return "", nil, "", errors.New("gemini: at least one non-system message is required")
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == ChatMessageRoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}

var _ CompletionService = (*GeminiProvider)(nil)
