// Package archive acquires the feedback corpus: it downloads the public
// share as one zip archive, filters entries by filename heuristics, and
// extracts the interview-related ones.
package archive

import (
	"path/filepath"
	"strings"
)

// Filter decides which archive entries are interview-related. All checks
// run against the lowercased filename; the keyword lists encode what the
// corpus curators considered interviews, feedback forms, and usability
// reports versus research output and project housekeeping.
type Filter struct {
	extensions map[string]struct{}
	target     []string
	research   []string
	exclude    []string
}

// NewFilter creates a filter with the corpus keyword lists.
func NewFilter() *Filter {
	extensions := map[string]struct{}{
		".pdf":  {},
		".docx": {},
		".doc":  {},
		".txt":  {},
		".rtf":  {},
	}

	target := []string{
		// Interview files
		"interview", "befragung", "gespräch", "leitfaden", "filled",
		// Feedback reports
		"feedback", "evaluation", "bewertung", "rückmeldung",
		// Usability test reports
		"usability", "test", "testing", "bericht", "testbericht",
		"ux-evaluation", "user", "survey", "questionnaire", "umfrage",
	}

	research := []string{
		"paper", "chi2020", "foundations", "designing", "maas", "etal",
		"citizenneeds", "hubbel", "display_value", "interactive_displays",
		"pdf", // research papers in the corpus are PDFs
	}

	exclude := []string{
		"admin", "config", "setup", "install", "readme",
		"license", "changelog", "version", "backup",
		"doku", "fahrplan", "katalog", "widget",
	}

	return &Filter{
		extensions: extensions,
		target:     target,
		research:   research,
		exclude:    exclude,
	}
}

// IsRelevantExtension reports whether the filename has one of the corpus
// document extensions.
func (f *Filter) IsRelevantExtension(filename string) bool {
	_, ok := f.extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsExcluded reports whether the filename hits a housekeeping keyword.
func (f *Filter) IsExcluded(filename string) bool {
	return containsAny(strings.ToLower(filename), f.exclude)
}

// IsInterviewRelated reports whether the filename looks like interview or
// feedback content: it must hit a target keyword and must not look like a
// research paper or excluded housekeeping file.
func (f *Filter) IsInterviewRelated(filename string) bool {
	lower := strings.ToLower(filename)
	return containsAny(lower, f.target) &&
		!containsAny(lower, f.research) &&
		!containsAny(lower, f.exclude)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
