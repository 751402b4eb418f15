package categorizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipnote/internal/models"
	"clipnote/internal/services"
	"clipnote/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Stub completion service ---
type stubLLM struct {
	status   store.ProviderStatus
	response string
	err      error
	prompts  []string
	opts     []services.CompletionOptions
}

func (s *stubLLM) GenerateChatCompletion(_ context.Context, msgs []services.ChatMessage, opts services.CompletionOptions) (string, error) {
	s.prompts = append(s.prompts, msgs[len(msgs)-1].Content)
	s.opts = append(s.opts, opts)
	return s.response, s.err
}
func (s *stubLLM) CheckAvailability(context.Context) store.ProviderStatus { return s.status }
func (s *stubLLM) Status() store.ProviderStatus                         { return s.status }
func (s *stubLLM) Name() string                                         { return "stub" }
func (s *stubLLM) ModelName() string                                    { return "stub-model" }

const financeBody = "We discuss money, budget planning and investment strategy. Saving money every month and a clear budget help you build wealth."

func TestLLMCategorizer_Categorize_Parsing(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain json", `{"tags": ["go", "testing", "mock"], "category": "Software Development", "confidence": 0.85}`},
		{"fenced json", "```json\n{\"tags\": [\"go\", \"testing\", \"mock\"], \"category\": \"Software Development\", \"confidence\": 0.85}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{status: store.ProviderStatusActive, response: tt.response}
			c := NewLLMCategorizer(llm, "title={{TITLE}} body={{BODY}} tags={{EXISTING_TAGS}}", nil)

			res, err := c.Categorize(context.Background(), CategorizationRequest{Title: "Test Title", Body: "Test Body", ExistingTags: []string{"a", "b"}})
			require.NoError(t, err)

			assert.Equal(t, []string{"go", "testing", "mock"}, res.SuggestedTags)
			assert.Equal(t, "Software Development", res.SuggestedCategory)
			assert.Equal(t, 0.85, res.Confidence)
			assert.Equal(t, SourceLLM, res.Source)
			assert.Equal(t, "title=Test Title body=Test Body tags=a, b", llm.prompts[0])
			assert.Equal(t, models.ServiceTypeCategorize, llm.opts[0].ServiceType)
		})
	}
}

func TestLLMCategorizer_DropsExistingAndDefaultsConfidence(t *testing.T) {
	llm := &stubLLM{status: store.ProviderStatusActive, response: `{"tags": ["Go", "go", "testing"], "category": ""}`}
	res, err := NewLLMCategorizer(llm, "", nil).Categorize(context.Background(), CategorizationRequest{Body: "x", ExistingTags: []string{"TESTING"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, res.SuggestedTags)
	assert.Equal(t, defaultCategory, res.SuggestedCategory)
	assert.Equal(t, 1.0, res.Confidence)
	assert.True(t, strings.Contains(llm.prompts[0], "Respond with JSON only"))
}

func TestLLMCategorizer_FallsBack(t *testing.T) {
	tests := []struct {
		name  string
		llm   *stubLLM
		calls int
	}{
		{"disabled provider", &stubLLM{status: store.ProviderStatusDisabled}, 0},
		{"completion error", &stubLLM{status: store.ProviderStatusActive, err: errors.New("boom")}, 1},
		{"invalid json", &stubLLM{status: store.ProviderStatusActive, response: "This is just plain text, not JSON."}, 1},
		{"empty suggestion", &stubLLM{status: store.ProviderStatusActive, response: `{"tags": []}`}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewLLMCategorizer(tt.llm, "", nil).Categorize(context.Background(), CategorizationRequest{Title: "Budget tips", Body: financeBody})
			require.NoError(t, err)
			assert.Equal(t, SourceKeyword, res.Source)
			assert.Len(t, tt.llm.prompts, tt.calls)
		})
	}
}

func TestKeywordCategorizer(t *testing.T) {
	c := NewKeywordCategorizer(nil)

	res, err := c.Categorize(context.Background(), CategorizationRequest{Title: "Budget tips", Body: financeBody})
	require.NoError(t, err)
	assert.Equal(t, SourceKeyword, res.Source)
	assert.NotEmpty(t, res.SuggestedTags)
	if len(res.Topics) > 0 {
		assert.Equal(t, res.Topics[0], res.SuggestedCategory)
	}

	again, err := c.Categorize(context.Background(), CategorizationRequest{Title: "Budget tips", Body: financeBody, ExistingTags: res.SuggestedTags})
	require.NoError(t, err)
	for _, tag := range res.SuggestedTags {
		assert.NotContains(t, again.SuggestedTags, tag)
	}

	empty, err := c.Categorize(context.Background(), CategorizationRequest{})
	require.NoError(t, err)
	assert.Equal(t, defaultCategory, empty.SuggestedCategory)
	assert.Equal(t, 0.3, empty.Confidence)
}
