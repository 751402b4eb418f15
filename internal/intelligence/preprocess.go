package intelligence

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	bracketedRe   = regexp.MustCompile(`\[.*?\]`)
	parenthesesRe = regexp.MustCompile(`\(.*?\)`)
	fillerRe      = regexp.MustCompile(`(?i)\b(um|uh|ah|er|like|you know|so|basically|actually|literally)\b`)
	connectorRe   = regexp.MustCompile(`(?i)\b(and|but|or|so|then|now|well|okay|alright)\s+`)
)

// Preprocess strips transcription noise: bracketed annotations such as
// "[Music]" or "(inaudible)", filler words and weak connectors.
func Preprocess(text string) string {
	cleaned := whitespaceRe.ReplaceAllString(text, " ")
	cleaned = bracketedRe.ReplaceAllString(cleaned, "")
	cleaned = parenthesesRe.ReplaceAllString(cleaned, "")
	cleaned = fillerRe.ReplaceAllString(cleaned, "")
	cleaned = connectorRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
