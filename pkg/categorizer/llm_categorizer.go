package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"clipnote/internal/models"
	"clipnote/internal/services"
	"clipnote/internal/store"

	log "github.com/sirupsen/logrus"
)

const maxPromptBody = 4000

// DefaultPromptTemplate asks for a JSON object. {{TITLE}}, {{BODY}} and
// {{EXISTING_TAGS}} are substituted.
const DefaultPromptTemplate = `Categorize the following content.

Title: {{TITLE}}
Existing tags: {{EXISTING_TAGS}}

Content:
{{BODY}}

Respond with JSON only, in the form {"tags": ["tag one", "tag two"], "category": "category", "confidence": 0.0-1.0}. Suggest 3-5 short tags that are not already in the existing tags.`

// LLMCategorizer implements ContentCategorizer
// relies on an LLM/completion API
type LLMCategorizer struct {
	llm            services.CompletionService
	promptTemplate string
	fallback       ContentCategorizer
}

// NewLLMCategorizer builds a categorizer over llm. An empty prompt selects
// DefaultPromptTemplate. fallback answers whenever the LLM cannot.
func NewLLMCategorizer(llm services.CompletionService, prompt string, fallback ContentCategorizer) *LLMCategorizer {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPromptTemplate
	}
	if fallback == nil {
		fallback = NewKeywordCategorizer(nil)
	}
	if llm == nil {
		llm = services.NewNoopCompletionService()
	}
	return &LLMCategorizer{llm: llm, promptTemplate: prompt, fallback: fallback}
}

func (c *LLMCategorizer) Categorize(ctx context.Context, req CategorizationRequest) (CategorizationResult, error) {
	if c.llm.Status() == store.ProviderStatusDisabled {
		return c.fallback.Categorize(ctx, req)
	}

	res, err := c.categorize(ctx, req)
	if err != nil {
		log.Warnf("LLM categorization failed, using keyword categorizer: %v", err)
		return c.fallback.Categorize(ctx, req)
	}
	return res, nil
}

func (c *LLMCategorizer) categorize(ctx context.Context, req CategorizationRequest) (CategorizationResult, error) {
	body := req.Body
	if r := []rune(body); len(r) > maxPromptBody {
		body = string(r[:maxPromptBody])
	}
	prompt := strings.NewReplacer(
		"{{TITLE}}", req.Title,
		"{{BODY}}", body,
		"{{EXISTING_TAGS}}", strings.Join(req.ExistingTags, ", "),
	).Replace(c.promptTemplate)

	content, err := c.llm.GenerateChatCompletion(ctx,
		[]services.ChatMessage{{Role: services.ChatMessageRoleUser, Content: prompt}},
		services.CompletionOptions{Temperature: 0.2, MaxTokens: 300, ServiceType: models.ServiceTypeCategorize},
	)
	if err != nil {
		return CategorizationResult{}, err
	}

	var parsed struct {
		Tags       []string `json:"tags"`
		Category   string   `json:"category"`
		Confidence float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return CategorizationResult{}, fmt.Errorf("failed to parse LLM response as JSON: %w\nResponse content: %s", err, content)
	}

	tags := withoutExisting(services.NormalizeTags(parsed.Tags), req.ExistingTags)
	if len(tags) == 0 && strings.TrimSpace(parsed.Category) == "" {
		return CategorizationResult{}, fmt.Errorf("LLM response has neither tags nor category")
	}
	if parsed.Confidence <= 0 || parsed.Confidence > 1 {
		parsed.Confidence = 1.0
	}
	category := strings.TrimSpace(parsed.Category)
	if category == "" {
		category = defaultCategory
	}
	return CategorizationResult{
		SuggestedTags:     tags,
		SuggestedCategory: category,
		Confidence:        parsed.Confidence,
		Source:            SourceLLM,
	}, nil
}

// extractJSON returns the outermost {...} span, dropping markdown fences
// and chatter around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

var _ ContentCategorizer = (*LLMCategorizer)(nil)
