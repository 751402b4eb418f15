package intelligence

import (
	"regexp"
	"strings"
)

const minSentenceLength = 20

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	digitRe         = regexp.MustCompile(`\d+`)
	nameSpanRe      = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

// ScoredSentence is a sentence with its importance score and its position in
// the source text.
type ScoredSentence struct {
	Text  string
	Score int
	Index int
}

// SplitSentences splits on runs of terminal punctuation and keeps trimmed
// pieces longer than the minimum sentence length.
func SplitSentences(text string) []string {
	pieces := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if runeLen(p) > minSentenceLength {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// ScoreSentences assigns every sentence of text an importance score.
// With two sentences or fewer there is nothing to rank and each scores 1.
func (a *Analyzer) ScoreSentences(text string) []ScoredSentence {
	sentences := SplitSentences(text)
	scored := make([]ScoredSentence, len(sentences))

	if len(sentences) <= 2 {
		for i, s := range sentences {
			scored[i] = ScoredSentence{Text: s, Score: 1, Index: i}
		}
		return scored
	}

	for i, s := range sentences {
		scored[i] = ScoredSentence{Text: s, Score: a.scoreSentence(s, i, len(sentences)), Index: i}
	}
	return scored
}

func (a *Analyzer) scoreSentence(sentence string, index, total int) int {
	score := 0
	lower := strings.ToLower(sentence)

	for _, level := range a.taxonomy.Importance {
		for _, kw := range level.Keywords {
			if strings.Contains(lower, kw) {
				score += level.Weight
			}
		}
	}

	if index == 0 {
		score += 3
	}
	if index == total-1 {
		score += 2
	}
	if float64(index) < float64(total)*0.1 {
		score++
	}

	if digitRe.MatchString(sentence) {
		score++
	}
	if strings.Contains(sentence, "?") {
		score++
	}
	if strings.Contains(sentence, ":") {
		score++
	}
	if nameSpanRe.MatchString(sentence) {
		score++
	}

	length := runeLen(sentence)
	if length >= 30 && length <= 150 {
		score++
	}
	if length < 20 {
		score -= 2
	}
	if length > 200 {
		score--
	}

	if isRepetitive(lower) {
		score--
	}

	if score < 0 {
		return 0
	}
	return score
}

// isRepetitive reports whether the token count exceeds 1.5x the unique token count.
func isRepetitive(lower string) bool {
	words := whitespaceRe.Split(lower, -1)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(words)) > float64(len(unique))*1.5
}
