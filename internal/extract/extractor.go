// Package extract turns corpus documents into raw text. Each file format
// has its own extractor; the registry routes by extension. Raw text keeps
// its newlines and casing so the evidence linker can work on original
// sentences; cleaning happens downstream.
package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Extractor defines the interface for format-specific text extractors.
type Extractor interface {
	// Name returns the extractor name for logs and skip reasons.
	Name() string

	// Extensions lists the extensions this extractor handles, lowercase
	// with leading dot.
	Extensions() []string

	// Extract returns the document's raw text.
	Extract(path string) (string, error)
}

// Registry routes files to extractors by extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with all built-in extractors.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}

	r.Register(NewPDFExtractor())
	r.Register(NewDocxExtractor())
	r.Register(NewDocExtractor())
	r.Register(NewPlainExtractor())
	r.Register(NewHTMLExtractor())

	return r
}

// Register adds an extractor for all of its extensions. Later
// registrations win on conflicts.
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Find returns the extractor for path's extension.
func (r *Registry) Find(path string) (Extractor, bool) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Supported reports whether path's extension has an extractor.
func (r *Registry) Supported(path string) bool {
	_, ok := r.Find(path)
	return ok
}

// Extensions returns all supported extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract routes path to its extractor and returns the raw text.
func (r *Registry) Extract(path string) (string, error) {
	e, ok := r.Find(path)
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	return e.Extract(path)
}
