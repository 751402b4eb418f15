package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"clipnote/internal/models"
	"clipnote/internal/search"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"
)

const (
	// NoResultsReply is sent when the search finds nothing for the message.
	NoResultsReply = "I couldn't find any relevant content in your videos for that query. Try asking about specific topics or using different keywords."

	maxContextSentences  = 3
	leadContextSentences = 2
	minContextSentence   = 20
	maxSummaryEntries    = 3
	maxListedTitles      = 5
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			log.Warnf("Failed to create sentence tokenizer, falling back to punctuation split: %v", err)
			return
		}
		tokenizer = t
	})
	return tokenizer
}

// transcriptSentences returns the trimmed sentences of text, without their
// terminal punctuation, that are longer than the minimum context sentence.
func transcriptSentences(text string) []string {
	var raw []string
	if t := sentenceTokenizer(); t != nil {
		for _, s := range t.Tokenize(text) {
			raw = append(raw, s.Text)
		}
	} else {
		raw = strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' })
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".!?"))
		if len([]rune(s)) > minContextSentence {
			out = append(out, s)
		}
	}
	return out
}

// ExtractContext picks up to three transcript sentences mentioning a query
// word longer than two characters, or the first two sentences when none do.
func ExtractContext(transcript, query string) string {
	var terms []string
	for _, w := range strings.Split(strings.ToLower(query), " ") {
		if len([]rune(w)) > 2 {
			terms = append(terms, w)
		}
	}

	all := transcriptSentences(transcript)
	var relevant []string
	for _, s := range all {
		lower := strings.ToLower(s)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				relevant = append(relevant, s)
				break
			}
		}
		if len(relevant) == maxContextSentences {
			break
		}
	}

	picked := relevant
	if len(picked) == 0 {
		picked = all[:min(leadContextSentences, len(all))]
	}
	if len(picked) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(picked, ". ")) + "."
}

// BuildLLMContext renders the search results as the context block of a chat
// completion request.
func BuildLLMContext(message string, results []search.Result) string {
	parts := []string{
		fmt.Sprintf("User Query: \"%s\"", message),
		fmt.Sprintf("Found %d relevant item(s) from your content:", len(results)),
		"",
	}

	for i, r := range results {
		label := "Video"
		if r.Item.Type == models.ContentTypeNote {
			label = "Note"
		}
		parts = append(parts,
			fmt.Sprintf("=== %s %d: \"%s\" ===", label, i+1, r.Item.Title),
			"Relevance Score: "+strconv.FormatFloat(r.RelevanceScore, 'f', -1, 64),
			"Type: "+string(r.Item.Type),
		)
		if r.Item.Summary != "" {
			parts = append(parts, "Summary: "+r.Item.Summary)
		}
		if r.MatchedSnippet != "" {
			parts = append(parts, "Key Content: "+r.MatchedSnippet)
		}
		if r.Item.Type == models.ContentTypeVideo && r.Item.Transcript != "" {
			if extra := ExtractContext(r.Item.Transcript, message); extra != "" && extra != r.MatchedSnippet {
				parts = append(parts, "Additional Context: "+extra)
			}
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// ComposeSimpleResponse answers from the search results alone. results must
// not be empty.
func ComposeSimpleResponse(message string, results []search.Result) string {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "summary") || strings.Contains(lower, "summarize") {
		var entries []string
		for _, r := range results {
			if r.Item.Summary == "" {
				continue
			}
			entries = append(entries, fmt.Sprintf("\"%s\": %s", r.Item.Title, r.Item.Summary))
			if len(entries) == maxSummaryEntries {
				break
			}
		}
		if len(entries) > 0 {
			return "Here are summaries from your most relevant videos:\n\n" + strings.Join(entries, "\n\n")
		}
	}

	if strings.Contains(lower, "videos about") || strings.Contains(lower, "content about") {
		lines := make([]string, 0, maxListedTitles)
		for _, r := range results[:min(maxListedTitles, len(results))] {
			lines = append(lines, "\u2022 "+r.Item.Title)
		}
		return "I found these videos related to your query:\n\n" + strings.Join(lines, "\n")
	}

	top := results[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your videos, I found relevant information in \"%s\".", top.Item.Title)
	if top.MatchedSnippet != "" {
		fmt.Fprintf(&b, "\n\nHere's what I found: \"%s\"", top.MatchedSnippet)
	}
	if others := len(results) - 1; others > 0 {
		plural := ""
		if others > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "\n\nI also found related content in %d other video%s.", others, plural)
	}
	return b.String()
}
