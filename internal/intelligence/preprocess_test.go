package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"annotations", "[Music] Welcome   to the show (applause) today", "Welcome to the show today"},
		{"fillers", "Um I basically learned Go", "I learned Go"},
		{"connectors", "Okay let us begin. Well this matters.", "let us begin. this matters."},
		{"phrase filler", "you know it works", "it works"},
		{"whitespace only", " \n\t ", ""},
		{"keeps words containing fillers", "the summer umbrella", "the summer umbrella"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.input))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 10))
}
