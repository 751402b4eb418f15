package intelligence

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	// NoContentSummary is returned for empty or whitespace-only input.
	NoContentSummary = "No content available for summary."
	// UnableSummary is returned when the heuristics produce nothing usable.
	UnableSummary = "Unable to generate meaningful summary from the available content."

	// ShortTextLimit is the raw length at or below which a text gets the
	// simple extract instead of the composed summary.
	ShortTextLimit = 500

	passThroughLimit  = 150
	maxSummaryLength  = 500
	minSummaryLength  = 50
	minBoundaryCutoff = 200
	fallbackMaxLength = 200
	similarityCeiling = 0.8
	framingLimit      = 500
)

var (
	terminalRe  = regexp.MustCompile(`[.!?]$`)
	doubleDotRe = regexp.MustCompile(`\.\s*\.`)
)

// Summarize runs the local two-path summary: a short extract for short text
// and the composed summary otherwise.
func (a *Analyzer) Summarize(text string) string {
	if strings.TrimSpace(text) == "" {
		return NoContentSummary
	}
	if runeLen(text) <= ShortTextLimit {
		return SimpleSummary(text)
	}
	return a.Compose(text)
}

// SimpleSummary returns the preprocessed text when it is already short, else
// its first three sentences.
func SimpleSummary(text string) string {
	clean := Preprocess(text)
	if clean == "" {
		return UnableSummary
	}
	if runeLen(clean) <= passThroughLimit {
		return clean
	}
	sentences := SplitSentences(clean)
	if len(sentences) == 0 {
		return truncateRunes(clean, passThroughLimit) + "..."
	}
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return strings.Join(sentences, ". ") + "."
}

// Compose builds an extractive summary from the highest scored sentences,
// framed with the leading topic and a notable number when available.
func (a *Analyzer) Compose(text string) string {
	clean := Preprocess(text)
	if clean == "" {
		return UnableSummary
	}
	if runeLen(clean) <= passThroughLimit {
		return clean
	}

	info := ExtractKeyInfo(clean)
	scored := a.ScoreSentences(clean)
	topics := a.ClassifyTopics(clean)

	draft := contextualSummary(scored, info, topics)
	summary := postProcess(draft, clean)
	if summary == "" {
		return UnableSummary
	}
	return summary
}

func contextualSummary(scored []ScoredSentence, info KeyInfo, topics []string) string {
	ranked := make([]ScoredSentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	keep := int(math.Ceil(float64(len(ranked)) * 0.3))
	keep = min(4, max(2, keep))
	if keep > len(ranked) {
		keep = len(ranked)
	}
	selected := ranked[:keep]
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Index < selected[j].Index
	})

	parts := make([]string, len(selected))
	for i, s := range selected {
		parts[i] = s.Text
	}
	summary := strings.Join(parts, ". ")

	if len(info.Numbers) > 0 && !digitRe.MatchString(summary) {
		summary = fmt.Sprintf("The discussion mentions %s. %s", info.Numbers[0], summary)
	}

	if len(topics) > 0 {
		framed := fmt.Sprintf("This %s-focused discussion covers: %s", topics[0], summary)
		if runeLen(framed) < framingLimit {
			summary = framed
		}
	}

	if !terminalRe.MatchString(summary) {
		summary += "."
	}
	return summary
}

// postProcess tidies punctuation, trims summaries that echo the source too
// closely and enforces the length window.
func postProcess(summary, original string) string {
	s := doubleDotRe.ReplaceAllString(summary, ".")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	if wordSimilarity(s, original) > similarityCeiling {
		var sentences []string
		for _, p := range sentenceSplitRe.Split(s, -1) {
			if p = strings.TrimSpace(p); p != "" {
				sentences = append(sentences, p)
			}
		}
		if len(sentences) > 2 {
			keep := int(math.Ceil(float64(len(sentences)) * 0.7))
			s = strings.Join(sentences[:keep], ". ") + "."
		}
	}

	if runes := []rune(s); len(runes) > maxSummaryLength {
		cutoff := lastIndexRune(runes[:maxSummaryLength+1], '.')
		if cutoff > minBoundaryCutoff {
			s = string(runes[:cutoff+1])
		} else {
			s = string(runes[:maxSummaryLength]) + "..."
		}
	}

	if runeLen(s) < minSummaryLength {
		first := sentenceSplitRe.Split(original, -1)[0]
		if runeLen(first) > minSentenceLength {
			if runeLen(first) > fallbackMaxLength {
				s = truncateRunes(first, fallbackMaxLength) + "..."
			} else {
				s = first
			}
		}
	}

	return s
}

// wordSimilarity is the Jaccard index of the lowercase word sets of a and b.
func wordSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
