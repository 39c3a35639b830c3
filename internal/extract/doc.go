package extract

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

// DocExtractor handles legacy .doc files by shelling out to antiword,
// which must be on PATH.
type DocExtractor struct{}

// NewDocExtractor creates a new DOC extractor.
func NewDocExtractor() *DocExtractor {
	return &DocExtractor{}
}

// Name returns the extractor name.
func (e *DocExtractor) Name() string { return "doc" }

// Extensions returns the handled extensions.
func (e *DocExtractor) Extensions() []string { return []string{".doc"} }

// Extract runs antiword and returns its stdout.
func (e *DocExtractor) Extract(path string) (string, error) {
	antiword, err := exec.LookPath("antiword")
	if err != nil {
		return "", fmt.Errorf("antiword not found, cannot extract %s", filepath.Base(path))
	}

	out, err := exec.Command(antiword, path).Output()
	if err != nil {
		return "", fmt.Errorf("antiword failed on %s: %w", filepath.Base(path), err)
	}
	return string(out), nil
}
