package intelligence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTopics(t *testing.T) {
	a := MustDefaultAnalyzer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"two topics", "This software app helps every startup business grow", []string{"technology", "business"}},
		{"shared keyword counts once per topic", "We study data", []string{"science"}},
		{"case insensitive", "SOFTWARE and APP", []string{"technology"}},
		{"declaration order", "the movie music and the research data", []string{"science", "entertainment"}},
		{"single keyword is not enough", "a fitness plan", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ClassifyTopics(tt.text))
		})
	}
}

func TestClassifyTopics_Concurrent(t *testing.T) {
	a := MustDefaultAnalyzer()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"health"}, a.ClassifyTopics("doctor recommended exercise"))
		}()
	}
	wg.Wait()
}
