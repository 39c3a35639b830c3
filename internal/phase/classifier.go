package phase

import (
	"regexp"
	"strings"

	"github.com/participax/civiclens/internal/model"
)

// Boost weights applied on top of the term ratios.
const (
	citizenBoost  = 0.5
	designerBoost = 0.4
	plannerBoost  = 0.4
)

// PhaseScore is the transparent scoring record for one phase.
type PhaseScore struct {
	Phase   model.Phase `json:"phase"`
	Matched []string    `json:"matched,omitempty"`
	Ratio   float64     `json:"ratio"`
	Boost   float64     `json:"boost"`
	Total   float64     `json:"total"`
	Formula string      `json:"formula"`
}

// Breakdown explains a single classification: the winning phase plus the
// per-phase scores that produced it, in tie-break order.
type Breakdown struct {
	Phase  model.Phase  `json:"phase"`
	Scores []PhaseScore `json:"scores"`
}

// Classifier assigns a phase to each entry. It is safe for concurrent use
// once constructed.
type Classifier struct {
	sets []termSet
}

type termSet struct {
	phase    model.Phase
	terms    []string
	patterns []*regexp.Regexp
}

func newTermSet(phase model.Phase, terms []string) termSet {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = wordPattern(term)
	}
	return termSet{phase: phase, terms: terms, patterns: patterns}
}

// NewClassifier compiles the rubric into a classifier. Term sets keep the
// rubric's order; ties between phases resolve in Discover, Define,
// Develop, Deliver order.
func NewClassifier(r Rubric) *Classifier {
	return &Classifier{
		sets: []termSet{
			newTermSet(model.PhaseDiscover, r.Discover),
			newTermSet(model.PhaseDefine, r.Define),
			newTermSet(model.PhaseDevelop, r.Develop),
			newTermSet(model.PhaseDeliver, r.Deliver),
		},
	}
}

// Classify returns the phase for an entry.
func (c *Classifier) Classify(e model.Entry) model.Phase {
	return c.Score(e).Phase
}

// Score computes the full breakdown for an entry: term ratios over the
// combined scoring text, plus the role boosts.
func (c *Classifier) Score(e model.Entry) Breakdown {
	return c.score(
		ScoringText(e),
		e.CitizenSentence(),
		e.Roles.Designer.DesignSuggestion,
		e.Roles.Planner.PlanningSuggestion,
	)
}

// ScoreText computes a breakdown for free text. No role boosts apply, so
// the result is the pure term-ratio comparison.
func (c *Classifier) ScoreText(text string) Breakdown {
	return c.score(text, "", "", "")
}

func (c *Classifier) score(text, citizen, designer, planner string) Breakdown {
	scores := make([]PhaseScore, 0, len(c.sets))

	for _, set := range c.sets {
		// 1. Normalized term hits (matched / set size)
		matched := set.matchedTerms(text)
		denom := len(set.terms)
		if denom == 0 {
			denom = 1
		}
		ratio := float64(len(matched)) / float64(denom)

		// 2. Role boosts
		boost := 0.0
		formula := "matched_terms / total_terms"
		switch set.phase {
		case model.PhaseDiscover:
			if set.matchesAny(citizen) {
				boost = citizenBoost
			}
			formula = "matched_terms / total_terms + 0.5 if citizen sentence hits a discover term"
		case model.PhaseDevelop:
			if strings.TrimSpace(designer) != "" {
				boost = designerBoost
			}
			formula = "matched_terms / total_terms + 0.4 if design suggestion present"
		case model.PhaseDeliver:
			if strings.TrimSpace(planner) != "" {
				boost = plannerBoost
			}
			formula = "matched_terms / total_terms + 0.4 if planning suggestion present"
		}

		scores = append(scores, PhaseScore{
			Phase:   set.phase,
			Matched: matched,
			Ratio:   ratio,
			Boost:   boost,
			Total:   ratio + boost,
			Formula: formula,
		})
	}

	// 3. Pick the best total; zero everywhere defaults to Discover, and
	// ties resolve to the earliest phase.
	best := 0.0
	for _, ps := range scores {
		if ps.Total > best {
			best = ps.Total
		}
	}

	winner := model.PhaseDiscover
	if best > 0 {
		for _, ps := range scores {
			if ps.Total == best {
				winner = ps.Phase
				break
			}
		}
	}

	return Breakdown{Phase: winner, Scores: scores}
}

// ScoringText joins the entry fields the classifier looks at: keyword,
// citizen sentence, both suggestions, and source. Empty parts are dropped.
func ScoringText(e model.Entry) string {
	parts := []string{
		e.Keyword,
		e.CitizenSentence(),
		e.Roles.Designer.DesignSuggestion,
		e.Roles.Planner.PlanningSuggestion,
		e.Source,
	}

	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func (s termSet) matchedTerms(text string) []string {
	var matched []string
	for i, p := range s.patterns {
		if p.MatchString(text) {
			matched = append(matched, s.terms[i])
		}
	}
	return matched
}

func (s termSet) matchesAny(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range s.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
