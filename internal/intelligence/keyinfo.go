package intelligence

import "regexp"

var (
	numberRe     = regexp.MustCompile(`\b\d+(?:\.\d+)?%?\b`)
	dateRe       = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}|\b\d{1,2}/\d{1,2}/\d{2,4}|\b\d{4}-\d{2}-\d{2}\b`)
	questionRe   = regexp.MustCompile(`[^.!?]*\?[^.!?]*`)
	conclusionRe = regexp.MustCompile(`(?i)\b(?:in conclusion|to summarize|finally|overall|in summary|to wrap up|in the end)\b[^.!?]*[.!?]`)
)

// KeyInfo holds the notable fragments found in a text, in source order.
// Duplicates are kept.
type KeyInfo struct {
	Numbers     []string
	Dates       []string
	Names       []string
	Questions   []string
	Conclusions []string
}

// ExtractKeyInfo collects numbers, dates, name spans, questions and
// concluding statements from text.
func ExtractKeyInfo(text string) KeyInfo {
	return KeyInfo{
		Numbers:     findAll(numberRe, text),
		Dates:       findAll(dateRe, text),
		Names:       findAll(nameSpanRe, text),
		Questions:   findAll(questionRe, text),
		Conclusions: findAll(conclusionRe, text),
	}
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
