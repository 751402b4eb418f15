// Package search ranks stored videos and notes against a free-text query.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"clipnote/internal/models"
)

// MaxResults caps the number of results returned by Search.
const MaxResults = 5

const (
	titleWeight      = 10
	titleCap         = 30
	summaryWeight    = 5
	summaryCap       = 20
	transcriptWeight = 1
	transcriptCap    = 10
	tagWeight        = 8
	tagCap           = 25

	minTermLength   = 2
	minPhraseLength = 5
)

var (
	alphaRe = regexp.MustCompile(`^[a-zA-Z]+$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`what how why when where tell me about the a an and or but in on at to for of
		with by is are was were be been have has had do does did will would could should may might can
		i you he she it we they my your his her its our their`) {
		stopWords[w] = struct{}{}
	}
}

// Result is one ranked item with the snippet that matched.
type Result struct {
	Item           models.ContentItem `json:"item"`
	RelevanceScore float64            `json:"relevance_score"`
	MatchedSnippet string             `json:"matched_content"`
}

// ExtractSearchTerms lowercases the query and trims punctuation around each
// token. Short, stop-word and non-alphabetic tokens are dropped. A long
// enough query is appended whole as a phrase term.
func ExtractSearchTerms(query string) []string {
	lower := strings.ToLower(query)
	terms := []string{}
	for _, w := range spaceRe.Split(lower, -1) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if len(w) <= minTermLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if !alphaRe.MatchString(w) {
			continue
		}
		terms = append(terms, w)
	}
	if len(lower) > minPhraseLength {
		terms = append(terms, lower)
	}
	return terms
}

// Search scores every item against the query and returns at most MaxResults
// items with a positive score, best first.
func Search(query string, items []models.ContentItem) []Result {
	terms := ExtractSearchTerms(query)
	if len(terms) == 0 {
		return []Result{}
	}

	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(regexp.QuoteMeta(term))
	}

	results := []Result{}
	for _, item := range items {
		score := scoreItem(item, patterns)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			Item:           item,
			RelevanceScore: score,
			MatchedSnippet: ExtractSnippet(itemContent(item), terms),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

func scoreItem(item models.ContentItem, patterns []*regexp.Regexp) float64 {
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(item.Summary)
	transcript := strings.ToLower(item.Transcript)
	tags := strings.ToLower(strings.Join(item.Tags, ", "))

	score := 0
	for _, re := range patterns {
		score += capped(countMatches(re, title), titleWeight, titleCap)
		score += capped(countMatches(re, summary), summaryWeight, summaryCap)
		score += capped(countMatches(re, transcript), transcriptWeight, transcriptCap)
		score += capped(countMatches(re, tags), tagWeight, tagCap)
	}
	return float64(score)
}

func countMatches(re *regexp.Regexp, field string) int {
	if field == "" {
		return 0
	}
	return len(re.FindAllStringIndex(field, -1))
}

func capped(n, weight, limit int) int {
	return min(n*weight, limit)
}

func itemContent(item models.ContentItem) string {
	return strings.Join([]string{item.Title, item.Summary, item.Transcript, strings.Join(item.Tags, ", ")}, " ")
}

// ExtractSnippet returns the longest window around a term match in content.
// Word-bounded matches are tried for every term before falling back to plain
// substring matches. It returns "" when no term occurs.
func ExtractSnippet(content string, terms []string) string {
	for _, term := range terms {
		re, err := regexp.Compile(`(?i)(?:^|\s)(.{0,200}\b` + regexp.QuoteMeta(term) + `\b.{0,200})(?:\s|$)`)
		if err != nil {
			continue
		}
		if m := longest(re.FindAllString(content, -1)); m != "" {
			return strings.TrimSpace(m)
		}
	}
	for _, term := range terms {
		re, err := regexp.Compile(`(?i).{0,300}` + regexp.QuoteMeta(term) + `.{0,300}`)
		if err != nil {
			continue
		}
		if m := longest(re.FindAllString(content, -1)); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func longest(matches []string) string {
	best := ""
	for _, m := range matches {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}
