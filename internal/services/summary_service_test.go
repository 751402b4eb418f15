package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipnote/internal/intelligence"
	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func longTranscript() string {
	parts := []string{
		"Today we are going to talk about investing in index funds for the long term.",
		"The stock market has returned about 10 percent per year over the last century.",
		"Diversification matters because single companies can fail without warning.",
		"Many beginners worry about timing the market but time in the market matters more.",
		"Fees compound just like returns so a cheap fund keeps more money in your pocket.",
		"Finally remember that an emergency fund should come before any investment account.",
		"Rebalancing once a year keeps the portfolio close to the allocation you picked.",
	}
	return strings.Join(parts, " ")
}

func TestGenerateSummary(t *testing.T) {
	long := longTranscript()
	assert.Greater(t, len(long), intelligence.ShortTextLimit)
	analyzer := intelligence.MustDefaultAnalyzer()

	tests := []struct {
		name  string
		input string
		setup func(m *mockCompletion)
		want  string
	}{
		{
			name:  "empty input",
			input: "   \n\t",
			setup: func(m *mockCompletion) {},
			want:  intelligence.NoContentSummary,
		},
		{
			name:  "short input skips the LLM",
			input: "A quick note about budgeting apps.",
			setup: func(m *mockCompletion) {},
			want:  intelligence.SimpleSummary("A quick note about budgeting apps."),
		},
		{
			name:  "llm summary when available",
			input: long,
			setup: func(m *mockCompletion) {
				available(m, store.ProviderStatusActive)
				m.On("GenerateChatCompletion", mock.Anything, mock.MatchedBy(func(msgs []ChatMessage) bool {
					return len(msgs) == 2 &&
						msgs[0].Role == ChatMessageRoleSystem && msgs[0].Content == DefaultSummarySystemPrompt &&
						strings.HasPrefix(msgs[1].Content, "Please summarize the following text:\n")
				}), CompletionOptions{Temperature: 0.3, MaxTokens: 500, ServiceType: models.ServiceTypeSummary}).
					Return("  An LLM summary.  ", nil).Once()
			},
			want: "An LLM summary.",
		},
		{
			name:  "local summary when unavailable",
			input: long,
			setup: func(m *mockCompletion) { available(m, store.ProviderStatusInactive) },
			want:  analyzer.Compose(long),
		},
		{
			name:  "local summary when the llm errors",
			input: long,
			setup: func(m *mockCompletion) {
				available(m, store.ProviderStatusActive)
				m.On("GenerateChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
			},
			want: analyzer.Compose(long),
		},
		{
			name:  "local summary when the llm answers blank",
			input: long,
			setup: func(m *mockCompletion) {
				available(m, store.ProviderStatusActive)
				m.On("GenerateChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil).Once()
			},
			want: analyzer.Compose(long),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockCompletion{}
			tt.setup(m)
			svc := NewSummaryService(m, analyzer, "")
			assert.Equal(t, tt.want, svc.GenerateSummary(context.Background(), tt.input))
			m.AssertExpectations(t)
		})
	}
}

func TestSummarize_WithContext(t *testing.T) {
	m := &mockCompletion{}
	m.On("GenerateChatCompletion", mock.Anything, mock.MatchedBy(func(msgs []ChatMessage) bool {
		return msgs[1].Content == "Please summarize the following text. Context: a podcast\n\nText to summarize:\nhello"
	}), mock.Anything).Return("ok", nil).Once()

	out, err := NewSummaryService(m, nil, "custom").Summarize(context.Background(), "hello", "a podcast")
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
	m.AssertExpectations(t)
}

func TestGenerateSummary_NoopLLM(t *testing.T) {
	svc := NewSummaryService(NewNoopCompletionService(), nil, "")
	long := longTranscript()
	assert.Equal(t, svc.Analyzer().Compose(long), svc.GenerateSummary(context.Background(), long))
}
