// Package intelligence implements the local content heuristics: transcript
// cleanup, sentence scoring, key information extraction, topic labels,
// extractive summaries and tag ranking. Every method is a pure function of
// its input and the taxonomy, so an Analyzer is safe for concurrent use.
package intelligence

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Analyzer carries the compiled keyword tables.
type Analyzer struct {
	taxonomy   *Taxonomy
	topics     *topicMatcher
	categories []compiledCategory
	contextual []compiledRule
}

// NewAnalyzer compiles tax for scoring. A nil taxonomy selects the built-in one.
func NewAnalyzer(tax *Taxonomy) (*Analyzer, error) {
	if tax == nil {
		tax = DefaultTaxonomy()
	}
	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	rules, err := compileRules(tax.Contextual)
	if err != nil {
		return nil, fmt.Errorf("compile contextual rules: %w", err)
	}

	a := &Analyzer{
		taxonomy:   tax,
		topics:     newTopicMatcher(tax.Topics),
		categories: compileCategories(tax.Categories),
		contextual: rules,
	}
	log.Debugf("Analyzer ready: %d topics, %d tag categories, %d contextual rules",
		len(tax.Topics), len(tax.Categories), len(tax.Contextual))
	return a, nil
}

// MustDefaultAnalyzer returns an Analyzer over the built-in taxonomy.
func MustDefaultAnalyzer() *Analyzer {
	a, err := NewAnalyzer(nil)
	if err != nil {
		panic(err)
	}
	return a
}
