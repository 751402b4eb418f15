package services

import (
	"context"
	"fmt"
	"strings"

	"clipnote/internal/intelligence"
	"clipnote/internal/metrics"
	"clipnote/internal/models"

	log "github.com/sirupsen/logrus"
)

// DefaultSummarySystemPrompt is used when no summary prompt file is configured.
const DefaultSummarySystemPrompt = "You are an expert at creating concise, accurate summaries. Create a clear, well-structured summary that captures the main points and key information. Focus on the most important details and maintain the original meaning."

const (
	summaryTemperature = 0.3
	summaryMaxTokens   = 500
)

// SummaryService produces a summary for a transcript, preferring the LLM for
// long text and falling back to the local heuristics.
type SummaryService struct {
	llm          CompletionService
	analyzer     *intelligence.Analyzer
	systemPrompt string
}

func NewSummaryService(llm CompletionService, analyzer *intelligence.Analyzer, systemPrompt string) *SummaryService {
	if llm == nil {
		llm = NewNoopCompletionService()
	}
	if analyzer == nil {
		analyzer = intelligence.MustDefaultAnalyzer()
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSummarySystemPrompt
	}
	return &SummaryService{llm: llm, analyzer: analyzer, systemPrompt: systemPrompt}
}

// GenerateSummary never fails: LLM errors degrade to the local summary.
func (s *SummaryService) GenerateSummary(ctx context.Context, transcript string) string {
	if strings.TrimSpace(transcript) == "" {
		metrics.RecordSummaryPath(metrics.SummaryPathEmpty)
		return intelligence.NoContentSummary
	}
	if len([]rune(transcript)) <= intelligence.ShortTextLimit {
		metrics.RecordSummaryPath(metrics.SummaryPathSimple)
		return intelligence.SimpleSummary(transcript)
	}

	if isAvailable(ctx, s.llm) {
		summary, err := s.Summarize(ctx, transcript, "")
		if err != nil {
			log.Warnf("LLM summary failed, falling back to local summary: %v", err)
		} else if summary != "" {
			metrics.RecordSummaryPath(metrics.SummaryPathLLM)
			return summary
		}
	}

	metrics.RecordSummaryPath(metrics.SummaryPathLocal)
	return s.analyzer.Compose(transcript)
}

// Summarize asks the LLM directly, with optional extra context.
func (s *SummaryService) Summarize(ctx context.Context, text, summaryContext string) (string, error) {
	user := fmt.Sprintf("Please summarize the following text:\n%s", text)
	if summaryContext != "" {
		user = fmt.Sprintf("Please summarize the following text. Context: %s\n\nText to summarize:\n%s", summaryContext, text)
	}
	out, err := s.llm.GenerateChatCompletion(ctx, []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: s.systemPrompt},
		{Role: ChatMessageRoleUser, Content: user},
	}, CompletionOptions{
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
		ServiceType: models.ServiceTypeSummary,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Analyzer exposes the local heuristics used for fallbacks and tags.
func (s *SummaryService) Analyzer() *intelligence.Analyzer { return s.analyzer }
