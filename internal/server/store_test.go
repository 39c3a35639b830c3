package server

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/participax/civiclens/internal/model"
)

func samplePhased() []model.PhasedEntry {
	entry := func(keyword string, ph model.Phase) model.PhasedEntry {
		return model.PhasedEntry{
			Keyword: keyword,
			Roles: model.Roles{
				Citizen:  model.CitizenRole{OriginalSentence: "Satz zu " + keyword + ".", ExactSentence: "Satz zu " + keyword + "."},
				Designer: model.DesignerRole{DesignSuggestion: "Gestaltung für " + keyword + "."},
				Planner:  model.PlannerRole{PlanningSuggestion: "Planung für " + keyword + "."},
			},
			Source: "extracted/interview.txt",
			Phase:  ph,
		}
	}
	return []model.PhasedEntry{
		entry("spielplatz", model.PhaseDiscover),
		entry("umfrage", model.PhaseDiscover),
		entry("prototype", model.PhaseDevelop),
	}
}

func writeDataset(t *testing.T, path string, entries []model.PhasedEntry) {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structured_keywords_phased.json")
	writeDataset(t, path, samplePhased())

	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
	if store.LoadedAt().IsZero() {
		t.Error("LoadedAt() is zero after load")
	}

	counts := store.Counts()
	if counts[model.PhaseDiscover] != 2 || counts[model.PhaseDevelop] != 1 {
		t.Errorf("Counts() = %v", counts)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "structured_keywords_phased.json"), nil)

	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "Run 'civiclens run' first") {
		t.Errorf("error = %v, want a hint at the run command", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structured_keywords_phased.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	if err := store.Load(); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("error = %v, want parse failure", err)
	}
}

func TestStore_EntriesFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structured_keywords_phased.json")
	writeDataset(t, path, samplePhased())
	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	all := store.Entries("")
	if len(all) != 3 {
		t.Errorf("Entries(\"\") = %d entries, want 3", len(all))
	}

	// The returned slice is a copy; mutating it must not touch the store.
	all[0].Keyword = "mutated"
	if store.Entries("")[0].Keyword == "mutated" {
		t.Error("Entries() returned the internal slice")
	}

	discover := store.Entries(model.PhaseDiscover)
	if len(discover) != 2 {
		t.Errorf("Entries(Discover) = %d entries, want 2", len(discover))
	}
	for _, e := range discover {
		if e.Phase != model.PhaseDiscover {
			t.Errorf("entry %q has phase %s", e.Keyword, e.Phase)
		}
	}

	if deliver := store.Entries(model.PhaseDeliver); deliver == nil || len(deliver) != 0 {
		t.Errorf("Entries(Deliver) = %v, want empty non-nil slice", deliver)
	}
}

func TestStore_MaybeReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structured_keywords_phased.json")
	writeDataset(t, path, samplePhased())

	store := NewStore(path, nil)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	// Newer mtime triggers a reload.
	bigger := append(samplePhased(), model.PhasedEntry{Keyword: "rollout", Phase: model.PhaseDeliver, Source: "x"})
	writeDataset(t, path, bigger)
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	store.maybeReload()
	if store.Len() != 4 {
		t.Fatalf("Len() = %d after reload, want 4", store.Len())
	}

	// Same mtime is treated as unchanged, even with new content.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	writeDataset(t, path, samplePhased())
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		t.Fatal(err)
	}
	store.maybeReload()
	if store.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (unchanged mtime must not reload)", store.Len())
	}
}

func TestStore_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structured_keywords_phased.json")
	writeDataset(t, path, samplePhased())

	var log bytes.Buffer
	store := NewStore(path, &log)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Replace the dataset the way the pipeline does: temp file plus rename.
	bigger := append(samplePhased(), model.PhasedEntry{Keyword: "rollout", Phase: model.PhaseDeliver, Source: "x"})
	tmp := filepath.Join(dir, ".structured_keywords_phased.json.tmp")
	writeDataset(t, tmp, bigger)
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(tmp, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for store.Len() != 4 {
		if time.Now().After(deadline) {
			t.Fatalf("dataset not reloaded, Len() = %d, log = %q", store.Len(), log.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
