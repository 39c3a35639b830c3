package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/participax/civiclens/internal/llm"
	"github.com/participax/civiclens/internal/model"
)

type stubProvider struct {
	failFor string
}

func (p *stubProvider) Name() string {
	return "stub"
}

func (p *stubProvider) IsAvailable(ctx context.Context) bool {
	return true
}

func (p *stubProvider) Suggest(ctx context.Context, req llm.SuggestRequest) (*llm.SuggestResponse, error) {
	if p.failFor != "" && req.Keyword == p.failFor {
		return nil, errors.New("backend down")
	}
	return &llm.SuggestResponse{
		DesignSuggestion:   "Design for " + req.Keyword + ".",
		PlanningSuggestion: "Plan for " + req.Keyword + ".",
		Model:              "stub-1",
		TokensUsed:         10,
	}, nil
}

func testEntries(n int) []*model.Entry {
	entries := make([]*model.Entry, n)
	for i := range entries {
		entries[i] = &model.Entry{
			Keyword: fmt.Sprintf("keyword%d", i),
			Roles: model.Roles{
				Citizen: model.CitizenRole{
					OriginalSentence: fmt.Sprintf("Sentence about keyword%d.", i),
					ExactSentence:    fmt.Sprintf("Sentence about keyword%d.", i),
				},
			},
			Source: "test.pdf",
		}
	}
	return entries
}

func TestSuggester_Apply_FillsEntriesInOrder(t *testing.T) {
	entries := testEntries(5)
	s := NewSuggester(&stubProvider{}, NewLimiter(0, 1), 3, nil)

	stats := s.Apply(context.Background(), entries)

	if stats.Succeeded != 5 || stats.Failed != 0 {
		t.Errorf("expected 5 successes, got %+v", stats)
	}
	if stats.TokensUsed != 50 {
		t.Errorf("expected 50 tokens, got %d", stats.TokensUsed)
	}

	for i, entry := range entries {
		wantDesign := fmt.Sprintf("Design for keyword%d.", i)
		wantPlan := fmt.Sprintf("Plan for keyword%d.", i)
		if entry.Roles.Designer.DesignSuggestion != wantDesign {
			t.Errorf("entry %d: expected %q, got %q", i, wantDesign, entry.Roles.Designer.DesignSuggestion)
		}
		if entry.Roles.Planner.PlanningSuggestion != wantPlan {
			t.Errorf("entry %d: expected %q, got %q", i, wantPlan, entry.Roles.Planner.PlanningSuggestion)
		}
	}
}

func TestSuggester_Apply_FailureDegradesToPlaceholders(t *testing.T) {
	entries := testEntries(3)
	var warnings bytes.Buffer
	s := NewSuggester(&stubProvider{failFor: "keyword1"}, NewLimiter(0, 1), 2, &warnings)

	stats := s.Apply(context.Background(), entries)

	if stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %+v", stats)
	}

	failed := entries[1]
	if failed.Roles.Designer.DesignSuggestion != "[LLM unavailable] design suggestion for 'keyword1'" {
		t.Errorf("unexpected design placeholder: %q", failed.Roles.Designer.DesignSuggestion)
	}
	if failed.Roles.Planner.PlanningSuggestion != "[LLM unavailable] planning suggestion for 'keyword1'" {
		t.Errorf("unexpected planning placeholder: %q", failed.Roles.Planner.PlanningSuggestion)
	}
	if !llm.IsPlaceholder(failed.Roles.Designer.DesignSuggestion) {
		t.Error("degraded suggestion should be recognized as a placeholder")
	}

	if !strings.Contains(warnings.String(), "keyword1") {
		t.Errorf("expected warning naming the failed keyword, got %q", warnings.String())
	}
	if entries[0].Roles.Designer.DesignSuggestion != "Design for keyword0." {
		t.Errorf("healthy entry affected: %q", entries[0].Roles.Designer.DesignSuggestion)
	}
}

func TestSuggester_Apply_Empty(t *testing.T) {
	s := NewSuggester(&stubProvider{}, nil, 2, nil)
	stats := s.Apply(context.Background(), nil)
	if stats != (SuggestStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
