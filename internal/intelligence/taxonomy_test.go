package intelligence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	require.Len(t, tax.Importance, 3)
	assert.Len(t, tax.Topics, 6)
	assert.Len(t, tax.Categories, 23)
	assert.Len(t, tax.Contextual, 6)
	assert.Equal(t, "technology", tax.Topics[0].Name)
	assert.Equal(t, "artificial-intelligence", tax.Categories[0].Name)
	assert.InDelta(t, 3.0, tax.Categories[0].Weight, 1e-9)
}

func TestParseTaxonomy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no topics", "categories: [{name: a, weight: 1, keywords: [x]}]"},
		{"no categories", "topics: [{name: t, keywords: [x]}]"},
		{"zero weight", "topics: [{name: t, keywords: [x]}]\ncategories: [{name: a, weight: 0, keywords: [x]}]"},
		{"empty rule", "topics: [{name: t, keywords: [x]}]\ncategories: [{name: a, weight: 1, keywords: [x]}]\ncontextual: [{name: r, increment: 1}]"},
		{"bad yaml", "topics: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaxonomy([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadTaxonomy_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	doc := `
topics:
  - name: cooking
    keywords: [pasta, sauce]
categories:
  - name: italian
    weight: 2
    keywords: [pasta, risotto]
contextual:
  - name: bad-regex
    increment: 1
    pattern: '('
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Equal(t, "cooking", tax.Topics[0].Name)

	_, err = NewAnalyzer(tax)
	assert.Error(t, err, "invalid contextual pattern must be rejected")

	tax.Contextual = nil
	a, err := NewAnalyzer(tax)
	require.NoError(t, err)
	assert.Equal(t, []string{"cooking"}, a.ClassifyTopics("Pasta with tomato sauce"))
	assert.Equal(t, []string{"italian"}, a.GenerateTags("fresh pasta tonight", ""))

	def, err := LoadTaxonomy("")
	require.NoError(t, err)
	assert.Same(t, DefaultTaxonomy(), def)

	_, err = LoadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
