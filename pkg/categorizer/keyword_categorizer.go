package categorizer

import (
	"context"
	"strings"

	"clipnote/internal/intelligence"
)

// KeywordCategorizer derives suggestions from the local taxonomy.
type KeywordCategorizer struct {
	analyzer *intelligence.Analyzer
}

// NewKeywordCategorizer wraps analyzer. A nil analyzer uses the built-in taxonomy.
func NewKeywordCategorizer(analyzer *intelligence.Analyzer) *KeywordCategorizer {
	if analyzer == nil {
		analyzer = intelligence.MustDefaultAnalyzer()
	}
	return &KeywordCategorizer{analyzer: analyzer}
}

// Categorize tags the body and uses its first topic as the category. Tags
// already on the content are not suggested again.
func (k *KeywordCategorizer) Categorize(_ context.Context, req CategorizationRequest) (CategorizationResult, error) {
	text := strings.TrimSpace(req.Title + "\n" + req.Body)
	summary := k.analyzer.Summarize(req.Body)
	topics := k.analyzer.ClassifyTopics(text)

	category := defaultCategory
	if len(topics) > 0 {
		category = topics[0]
	}
	return CategorizationResult{
		SuggestedTags:     withoutExisting(k.analyzer.GenerateTags(text, summary), req.ExistingTags),
		SuggestedCategory: category,
		Topics:            topics,
		Confidence:        keywordConfidence(len(topics)),
		Source:            SourceKeyword,
	}, nil
}

// keywordConfidence grows with the number of matched topics.
func keywordConfidence(topics int) float64 {
	switch {
	case topics == 0:
		return 0.3
	case topics == 1:
		return 0.6
	default:
		return 0.8
	}
}

func withoutExisting(tags, existing []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		have[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := have[strings.ToLower(t)]; !ok {
			out = append(out, t)
		}
	}
	return out
}

var _ ContentCategorizer = (*KeywordCategorizer)(nil)
