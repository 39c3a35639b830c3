// Package phase assigns double-diamond phases to structured keyword
// entries. Classification is rubric-based and fully transparent: every
// decision can be reproduced from the per-phase term ratios and role
// boosts in the breakdown.
package phase

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rubric holds the term lists for each phase. Terms are matched as whole
// words, case-insensitively, against the entry's combined scoring text.
type Rubric struct {
	Discover []string `yaml:"discover"`
	Define   []string `yaml:"define"`
	Develop  []string `yaml:"develop"`
	Deliver  []string `yaml:"deliver"`
}

// DefaultRubric returns the built-in term lists. German and English terms
// are mixed because the corpus is; ASCII spellings (veroeffentlichung)
// only match documents that use them.
func DefaultRubric() Rubric {
	return Rubric{
		Discover: []string{
			"interview", "survey", "feedback", "research", "usability", "test",
			"workshop", "frage", "umfrage", "evaluation", "bericht", "quotes", "responses",
		},
		Define: []string{
			"priorit", "priority", "zusammenfassung", "analyse", "problem", "concern",
			"bedarf", "priorisier", "synthes", "define", "summary",
		},
		Develop: []string{
			"design", "prototype", "mockup", "widget", "interaction", "ux", "ui",
			"layout", "skizzen", "feature", "funktion", "karte", "filter",
			"visual", "gamification",
		},
		Deliver: []string{
			"deploy", "pilot", "rollout", "implement", "integration", "publish",
			"veroeffentlichung", "launch", "betrieb", "operate", "produktion",
			"plan", "planung", "ticketing",
		},
	}
}

// LoadRubric reads term lists from a YAML file. All four phases must have
// at least one term; there is no partial fallback to the defaults.
func LoadRubric(path string) (Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("failed to read rubric: %w", err)
	}

	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rubric{}, fmt.Errorf("failed to parse rubric: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}

	return r, nil
}

// Validate checks that every phase has terms.
func (r Rubric) Validate() error {
	lists := []struct {
		name  string
		terms []string
	}{
		{"discover", r.Discover},
		{"define", r.Define},
		{"develop", r.Develop},
		{"deliver", r.Deliver},
	}

	for _, l := range lists {
		if len(l.terms) == 0 {
			return fmt.Errorf("rubric has no %s terms", l.name)
		}
	}
	return nil
}

// wordPattern compiles a whole-word matcher for term. Word boundaries are
// string edges or any rune that is not a letter, digit, or underscore, so
// umlauts extend words: "priorit" does not match inside "priorität".
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(term) + `([^\p{L}\p{N}_]|$)`)
}
