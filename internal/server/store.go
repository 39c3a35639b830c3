// Package server exposes the phase-tagged keyword dataset over HTTP for
// dashboards and other consumers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/participax/civiclens/internal/model"
)

// Store holds the dataset in memory and reloads it when the file on disk
// changes. All read methods are safe for concurrent use.
type Store struct {
	path string
	logW io.Writer

	mu       sync.RWMutex
	entries  []model.PhasedEntry
	loadedAt time.Time
	modTime  time.Time
}

// NewStore creates a store for the dataset at path. Reload messages go to
// logW; nil discards them.
func NewStore(path string, logW io.Writer) *Store {
	if logW == nil {
		logW = io.Discard
	}
	return &Store{path: path, logW: logW}
}

// Load reads the dataset from disk, replacing the in-memory entries.
func (s *Store) Load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("dataset %s not found. Run 'civiclens run' first", s.path)
		}
		return fmt.Errorf("failed to stat dataset: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var entries []model.PhasedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse dataset %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.entries = entries
	s.loadedAt = time.Now()
	s.modTime = info.ModTime()
	s.mu.Unlock()

	datasetEntries.Set(float64(len(entries)))
	datasetLoads.Inc()
	return nil
}

// Len returns the number of loaded entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LoadedAt returns when the dataset was last (re)loaded.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Entries returns the entries for one phase, or all entries when phase is
// empty. The returned slice is a copy.
func (s *Store) Entries(phase model.Phase) []model.PhasedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if phase == "" {
		out := make([]model.PhasedEntry, len(s.entries))
		copy(out, s.entries)
		return out
	}

	out := []model.PhasedEntry{}
	for _, e := range s.entries {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the number of entries per phase.
func (s *Store) Counts() map[model.Phase]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Phase]int)
	for _, e := range s.entries {
		counts[e.Phase]++
	}
	return counts
}

// Watch reloads the dataset whenever the file changes, until ctx is done.
// The watcher observes the directory, not the file: the pipeline replaces
// the dataset by rename, which would silently detach a file watch.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.maybeReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(s.logW, "Warning: dataset watcher error: %v\n", err)
			}
		}
	}()
	return nil
}

// maybeReload reloads the dataset if its mtime moved since the last load.
// Editors and the pipeline can fire several events per replacement; the
// mtime check collapses them into one reload.
func (s *Store) maybeReload() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}

	s.mu.RLock()
	unchanged := info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if unchanged {
		return
	}

	if err := s.Load(); err != nil {
		fmt.Fprintf(s.logW, "Warning: failed to reload dataset: %v\n", err)
		return
	}
	fmt.Fprintf(s.logW, "Reloaded dataset %s (%d entries)\n", s.path, s.Len())
}
