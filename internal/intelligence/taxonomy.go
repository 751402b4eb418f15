package intelligence

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// ImportanceLevel is a group of sentence keywords sharing one weight.
type ImportanceLevel struct {
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// Topic is a coarse label with the keywords that vote for it.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Category is a weighted tag category.
type Category struct {
	Name     string   `yaml:"name"`
	Weight   float64  `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// ContextRule adds Increment to the tag Name when Pattern matches, or when the
// content holds at least MinQuestions question marks.
type ContextRule struct {
	Name         string  `yaml:"name"`
	Increment    float64 `yaml:"increment"`
	Pattern      string  `yaml:"pattern"`
	MinQuestions int     `yaml:"min_questions"`
}

// Taxonomy holds every keyword table the pipeline scores against.
type Taxonomy struct {
	Importance []ImportanceLevel `yaml:"importance"`
	Topics     []Topic           `yaml:"topics"`
	Categories []Category        `yaml:"categories"`
	Contextual []ContextRule     `yaml:"contextual"`
}

var (
	defaultTaxonomy     *Taxonomy
	defaultTaxonomyOnce sync.Once
)

// DefaultTaxonomy returns the built-in keyword tables. Callers must not mutate it.
func DefaultTaxonomy() *Taxonomy {
	defaultTaxonomyOnce.Do(func() {
		t, err := ParseTaxonomy(defaultTaxonomyYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
		}
		defaultTaxonomy = t
	})
	return defaultTaxonomy
}

// LoadTaxonomy reads a taxonomy file. An empty path yields the built-in tables.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file '%s': %w", path, err)
	}
	t, err := ParseTaxonomy(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy file '%s': %w", path, err)
	}
	return t, nil
}

// ParseTaxonomy decodes and validates a YAML taxonomy document.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) Validate() error {
	if len(t.Topics) == 0 {
		return errors.New("taxonomy defines no topics")
	}
	if len(t.Categories) == 0 {
		return errors.New("taxonomy defines no tag categories")
	}
	for _, c := range t.Categories {
		if c.Name == "" {
			return errors.New("taxonomy category with empty name")
		}
		if c.Weight <= 0 {
			return fmt.Errorf("taxonomy category '%s' must have a positive weight", c.Name)
		}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("taxonomy category '%s' has no keywords", c.Name)
		}
	}
	for _, r := range t.Contextual {
		if r.Name == "" {
			return errors.New("taxonomy contextual rule with empty name")
		}
		if r.Pattern == "" && r.MinQuestions <= 0 {
			return fmt.Errorf("contextual rule '%s' needs a pattern or min_questions", r.Name)
		}
	}
	return nil
}
