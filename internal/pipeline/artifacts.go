package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/participax/civiclens/internal/model"
)

// MissingArtifactError reports an absent upstream artifact and names the
// command that produces it.
type MissingArtifactError struct {
	Path    string
	Command string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("%s not found. Run 'civiclens %s' first", e.Path, e.Command)
}

// WriteJSON writes v as two-space-indented JSON. The file is written to a
// temp file in the same directory and renamed into place, so a concurrent
// reader never observes a partial artifact. HTML escaping is off because
// the artifacts carry quoted German sentences that must stay readable.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// ReadKeywords loads the keyword-ranking artifact.
func ReadKeywords(path string) (*model.KeywordsArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingArtifactError{Path: path, Command: "extract"}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var artifact model.KeywordsArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &artifact, nil
}

// ReadEntries loads the structured keyword entries.
func ReadEntries(path string) ([]model.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingArtifactError{Path: path, Command: "build"}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entries, nil
}

// ReadPhasedEntries loads the phase-tagged entries.
func ReadPhasedEntries(path string) ([]model.PhasedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingArtifactError{Path: path, Command: "phase"}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []model.PhasedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entries, nil
}
