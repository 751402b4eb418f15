package intelligence

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

const minTopicMatches = 2

// topicMatcher finds every topic keyword in one pass over the text.
// ahocorasick.Matcher keeps per-call state, so Match runs under mu.
type topicMatcher struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	names    []string
	keywords []string
	// owners maps a keyword index to the topics listing that keyword.
	owners [][]int
}

func newTopicMatcher(topics []Topic) *topicMatcher {
	m := &topicMatcher{names: make([]string, len(topics))}
	index := make(map[string]int)

	for ti, topic := range topics {
		m.names[ti] = topic.Name
		for _, kw := range topic.Keywords {
			kw = strings.ToLower(kw)
			ki, ok := index[kw]
			if !ok {
				ki = len(m.keywords)
				index[kw] = ki
				m.keywords = append(m.keywords, kw)
				m.owners = append(m.owners, nil)
			}
			m.owners[ki] = appendUnique(m.owners[ki], ti)
		}
	}

	m.matcher = ahocorasick.NewStringMatcher(m.keywords)
	return m
}

func (m *topicMatcher) classify(text string) []string {
	lower := []byte(strings.ToLower(text))

	m.mu.Lock()
	hits := m.matcher.Match(lower)
	m.mu.Unlock()

	counts := make([]int, len(m.names))
	seen := make(map[int]struct{}, len(hits))
	for _, ki := range hits {
		if _, dup := seen[ki]; dup {
			continue
		}
		seen[ki] = struct{}{}
		for _, ti := range m.owners[ki] {
			counts[ti]++
		}
	}

	topics := []string{}
	for ti, n := range counts {
		if n >= minTopicMatches {
			topics = append(topics, m.names[ti])
		}
	}
	return topics
}

// ClassifyTopics returns every topic with at least two of its keywords
// present in text as case-insensitive substrings, in taxonomy order.
func (a *Analyzer) ClassifyTopics(text string) []string {
	return a.topics.classify(text)
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
