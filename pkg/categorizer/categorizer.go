// Package categorizer suggests tags and a category for a piece of content.
package categorizer

import "context"

// CategorizationRequest holds text + optional context
type CategorizationRequest struct {
	Title        string
	Body         string
	ExistingTags []string
}

// CategorizationResult holds suggested categories
type CategorizationResult struct {
	SuggestedTags     []string
	SuggestedCategory string
	Topics            []string
	Confidence        float64
	Source            string // "keyword" or "llm"
}

// ContentCategorizer categorizes content
type ContentCategorizer interface {
	Categorize(ctx context.Context, req CategorizationRequest) (CategorizationResult, error)
}

const (
	SourceKeyword = "keyword"
	SourceLLM     = "llm"

	defaultCategory = "general"
)
