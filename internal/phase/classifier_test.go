package phase

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/participax/civiclens/internal/model"
)

func entryWith(keyword, citizen, designer, planner, source string) model.Entry {
	return model.Entry{
		Keyword: keyword,
		Roles: model.Roles{
			Citizen:  model.CitizenRole{OriginalSentence: citizen, ExactSentence: citizen},
			Designer: model.DesignerRole{DesignSuggestion: designer},
			Planner:  model.PlannerRole{PlanningSuggestion: planner},
		},
		Source: source,
	}
}

func TestClassifySurveyEntry(t *testing.T) {
	c := NewClassifier(DefaultRubric())
	e := entryWith(
		"umfrage ergebnisse",
		"Die Umfrage zeigte große Zustimmung.",
		"",
		"",
		"umfrage_bericht.pdf",
	)

	b := c.Score(e)
	if b.Phase != model.PhaseDiscover {
		t.Fatalf("Expected Discover, got %s", b.Phase)
	}

	discover := b.Scores[0]
	if !reflect.DeepEqual(discover.Matched, []string{"umfrage"}) {
		t.Errorf("Expected matched [umfrage], got %v", discover.Matched)
	}
	if discover.Boost != citizenBoost {
		t.Errorf("Expected citizen boost %.1f, got %.1f", citizenBoost, discover.Boost)
	}
	// "umfrage_bericht.pdf" is a single word, so neither frage nor bericht
	// match inside it.
	for _, term := range discover.Matched {
		if term == "frage" || term == "bericht" {
			t.Errorf("Term %q should not match inside umfrage_bericht.pdf", term)
		}
	}
}

func TestClassifyDesignEntry(t *testing.T) {
	c := NewClassifier(DefaultRubric())
	e := entryWith(
		"mockup design",
		"Das neue Layout gefällt mir.",
		"Ein Mockup mit größeren Karten testen.",
		"",
		"",
	)

	b := c.Score(e)
	if b.Phase != model.PhaseDevelop {
		t.Fatalf("Expected Develop, got %s", b.Phase)
	}

	develop := b.Scores[2]
	if !reflect.DeepEqual(develop.Matched, []string{"design", "mockup", "layout"}) {
		t.Errorf("Expected matched [design mockup layout], got %v", develop.Matched)
	}
	if develop.Boost != designerBoost {
		t.Errorf("Expected designer boost %.1f, got %.1f", designerBoost, develop.Boost)
	}
	if develop.Total != develop.Ratio+develop.Boost {
		t.Errorf("Expected total = ratio + boost, got %.3f", develop.Total)
	}
}

func TestClassifyBoostDominance(t *testing.T) {
	c := NewClassifier(DefaultRubric())

	// "Prototyp" is not a rubric term ("prototype" matches whole words
	// only), so the designer boost alone decides.
	e := entryWith("Prototyp", "", "Den Prototyp am Marktplatz zeigen.", "", "")

	b := c.Score(e)
	if b.Phase != model.PhaseDevelop {
		t.Fatalf("Expected Develop, got %s", b.Phase)
	}
	develop := b.Scores[2]
	if develop.Ratio != 0 {
		t.Errorf("Expected no term matches, got %v", develop.Matched)
	}
	if develop.Boost != designerBoost {
		t.Errorf("Expected designer boost %.1f, got %.1f", designerBoost, develop.Boost)
	}
}

func TestClassifyEmptyEntryDefaultsToDiscover(t *testing.T) {
	c := NewClassifier(DefaultRubric())

	b := c.Score(model.Entry{})
	if b.Phase != model.PhaseDiscover {
		t.Errorf("Expected Discover for empty entry, got %s", b.Phase)
	}
	for _, ps := range b.Scores {
		if ps.Total != 0 {
			t.Errorf("Expected zero total for %s, got %.3f", ps.Phase, ps.Total)
		}
	}
}

func TestClassifyTieResolvesInPhaseOrder(t *testing.T) {
	c := NewClassifier(DefaultRubric())

	// Both suggestions present, no rubric terms anywhere: Develop and
	// Deliver tie at 0.4 and the earlier phase wins.
	e := entryWith("zzz", "", "Etwas Neues bauen.", "Morgen umsetzen.", "")

	b := c.Score(e)
	if b.Phase != model.PhaseDevelop {
		t.Fatalf("Expected Develop on tie, got %s", b.Phase)
	}
	if b.Scores[2].Total != 0.4 || b.Scores[3].Total != 0.4 {
		t.Errorf("Expected 0.4/0.4 tie, got %.3f/%.3f", b.Scores[2].Total, b.Scores[3].Total)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier(DefaultRubric())
	e := entryWith(
		"ticketing integration",
		"Der Pilot soll im Herbst starten.",
		"",
		"Rollout über das bestehende Ticketing planen.",
		"plan.docx",
	)

	first := c.Classify(e)
	for i := 0; i < 10; i++ {
		if got := c.Classify(e); got != first {
			t.Fatalf("Classification changed between runs: %s then %s", first, got)
		}
	}
	if first != model.PhaseDeliver {
		t.Errorf("Expected Deliver, got %s", first)
	}
}

func TestWordBoundaries(t *testing.T) {
	c := NewClassifier(DefaultRubric())

	tests := []struct {
		desc      string
		text      string
		wantTerms []string
	}{
		{
			desc:      "Stem does not match inside an umlaut word",
			text:      "priorität setzen",
			wantTerms: nil,
		},
		{
			desc:      "Stem does not match a longer English word",
			text:      "top priority list",
			wantTerms: []string{"priority"},
		},
		{
			desc:      "Hyphen counts as a word boundary",
			text:      "priorit-liste",
			wantTerms: []string{"priorit"},
		},
		{
			desc:      "Matching is case-insensitive",
			text:      "PROBLEM erkannt",
			wantTerms: []string{"problem"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			b := c.ScoreText(tt.text)
			define := b.Scores[1]
			if !reflect.DeepEqual(define.Matched, tt.wantTerms) {
				t.Errorf("Expected %v, got %v", tt.wantTerms, define.Matched)
			}
		})
	}
}

func TestScoreTextAppliesNoBoosts(t *testing.T) {
	c := NewClassifier(DefaultRubric())

	b := c.ScoreText("feedback zur umfrage")
	for _, ps := range b.Scores {
		if ps.Boost != 0 {
			t.Errorf("Expected no boost for %s on free text, got %.1f", ps.Phase, ps.Boost)
		}
	}
	if b.Phase != model.PhaseDiscover {
		t.Errorf("Expected Discover, got %s", b.Phase)
	}
}

func TestScoringText(t *testing.T) {
	e := model.Entry{
		Keyword: "karte",
		Roles: model.Roles{
			Citizen: model.CitizenRole{OriginalSentence: "Eine Karte wäre gut."},
			Planner: model.PlannerRole{PlanningSuggestion: "In den Plan aufnehmen."},
		},
		Source: "notizen.txt",
	}

	want := "karte Eine Karte wäre gut. In den Plan aufnehmen. notizen.txt"
	if got := ScoringText(e); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestLoadRubric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")

	content := `discover: [alpha]
define: [beta]
develop: [gamma]
deliver: [delta]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write rubric: %v", err)
	}

	r, err := LoadRubric(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(r.Discover, []string{"alpha"}) {
		t.Errorf("Expected discover [alpha], got %v", r.Discover)
	}

	b := NewClassifier(r).ScoreText("beta beta")
	if b.Phase != model.PhaseDefine {
		t.Errorf("Expected Define with custom rubric, got %s", b.Phase)
	}
}

func TestLoadRubricRejectsMissingPhase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")

	content := `discover: [alpha]
define: [beta]
develop: [gamma]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write rubric: %v", err)
	}

	if _, err := LoadRubric(path); err == nil {
		t.Error("Expected error for rubric without deliver terms")
	}
}
