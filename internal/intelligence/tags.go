package intelligence

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FallbackTag is emitted when nothing in the content scores.
const FallbackTag = "general"

const (
	multiMatchBoost = 1.2
	maxTags         = 6
	minTags         = 3
)

type compiledCategory struct {
	name     string
	weight   float64
	patterns []*regexp.Regexp
}

type compiledRule struct {
	name         string
	increment    float64
	pattern      *regexp.Regexp
	minQuestions int
}

// tagScore is one entry of the transient tag-to-score table. A slice keeps
// insertion order so ties resolve deterministically.
type tagScore struct {
	name  string
	score float64
}

func compileCategories(categories []Category) []compiledCategory {
	compiled := make([]compiledCategory, len(categories))
	for i, c := range categories {
		cc := compiledCategory{name: c.Name, weight: c.Weight}
		for _, kw := range c.Keywords {
			cc.patterns = append(cc.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
		}
		compiled[i] = cc
	}
	return compiled
}

func compileRules(rules []ContextRule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{name: r.Name, increment: r.Increment, minQuestions: r.MinQuestions}
		if r.Pattern != "" {
			re, err := regexp.Compile(`(?i)` + r.Pattern)
			if err != nil {
				return nil, err
			}
			cr.pattern = re
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// GenerateTags ranks the taxonomy categories and contextual tags against the
// combined transcript and summary. The result holds between one and six tags
// and falls back to "general".
func (a *Analyzer) GenerateTags(transcript, summary string) []string {
	content := strings.ToLower(transcript + " " + summary)
	wordCount := len(strings.Fields(content))
	if wordCount == 0 {
		return []string{FallbackTag}
	}

	var scores []tagScore
	add := func(name string, delta float64) {
		for i := range scores {
			if scores[i].name == name {
				scores[i].score += delta
				return
			}
		}
		scores = append(scores, tagScore{name: name, score: delta})
	}

	for _, c := range a.categories {
		score := 0.0
		matched := 0
		for _, re := range c.patterns {
			n := len(re.FindAllStringIndex(content, -1))
			if n == 0 {
				continue
			}
			score += float64(n) / float64(wordCount) * 1000 * c.weight
			matched++
		}
		if matched > 1 {
			score *= multiMatchBoost
		}
		if score > 0 {
			add(c.name, score)
		}
	}

	for _, r := range a.contextual {
		switch {
		case r.minQuestions > 0:
			if strings.Count(content, "?") >= r.minQuestions {
				add(r.name, r.increment)
			}
		case r.pattern != nil && r.pattern.MatchString(content):
			add(r.name, r.increment)
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	limit := min(maxTags, max(minTags, int(math.Floor(float64(len(scores))*0.6))))
	if limit > len(scores) {
		limit = len(scores)
	}

	tags := make([]string, 0, limit)
	for _, s := range scores[:limit] {
		tags = append(tags, s.name)
	}
	if len(tags) == 0 {
		return []string{FallbackTag}
	}
	return tags
}
