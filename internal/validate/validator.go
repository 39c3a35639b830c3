// Package validate checks the pipeline artifacts against the contracts
// that downstream consumers rely on: artifact shape, the transient day
// field, the duplicated citizen sentence, and phase labels.
package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/participax/civiclens/internal/model"
)

// Severity grades an issue. Errors break the artifact contract; warnings
// flag oddities the pipeline tolerates.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Artifact string   `json:"artifact"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Artifact, i.Message)
}

// Report collects the findings of one validation run.
type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// OK reports whether no error-severity issues were found.
func (r *Report) OK() bool {
	return r.Errors() == 0
}

// Errors counts error-severity issues.
func (r *Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int {
	return len(r.Issues) - r.Errors()
}

func (r *Report) add(severity Severity, artifact, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: severity,
		Artifact: artifact,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validator checks the three pipeline artifacts.
type Validator struct {
	artifacts model.ArtifactsConfig
}

// NewValidator creates a validator for the configured artifact paths.
func NewValidator(artifacts model.ArtifactsConfig) *Validator {
	return &Validator{artifacts: artifacts}
}

// Validate inspects every artifact that exists on disk. A missing
// artifact is a warning, since the stages may simply not have run yet;
// everything else that deviates from the contract is an error.
func (v *Validator) Validate() *Report {
	report := &Report{}

	v.validateKeywords(report)
	structured := v.validateStructured(report)
	v.validatePhased(report, structured)

	return report
}

func (v *Validator) validateKeywords(report *Report) {
	path := v.artifacts.Keywords
	data, ok := v.readArtifact(report, path, "extract")
	if !ok {
		return
	}
	report.Checked++

	var artifact model.KeywordsArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		report.add(SeverityError, path, "failed to parse: %v", err)
		return
	}

	if artifact.Summary.FilesProcessed != len(artifact.Results) {
		report.add(SeverityError, path, "summary.files_processed = %d but results holds %d files",
			artifact.Summary.FilesProcessed, len(artifact.Results))
	}

	seen := make(map[string]bool)
	for i, file := range artifact.Results {
		if file.Filename == "" {
			report.add(SeverityError, path, "results[%d] has no filename", i)
		}
		if file.Filepath != "" && seen[file.Filepath] {
			report.add(SeverityWarning, path, "results[%d] repeats filepath %s", i, file.Filepath)
		}
		seen[file.Filepath] = true

		for j, ks := range file.Keywords {
			if ks.Keyword == "" {
				report.add(SeverityError, path, "results[%d].keywords[%d] is empty", i, j)
			}
			if ks.Score < -1 || ks.Score > 1 {
				report.add(SeverityWarning, path, "results[%d].keywords[%d] (%q) has score %g outside [-1,1]",
					i, j, ks.Keyword, ks.Score)
			}
		}
	}
}

func (v *Validator) validateStructured(report *Report) []model.Entry {
	path := v.artifacts.Structured
	data, ok := v.readArtifact(report, path, "build")
	if !ok {
		return nil
	}
	report.Checked++

	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		report.add(SeverityError, path, "failed to parse: %v", err)
		return nil
	}

	for i, e := range entries {
		if e.Day != "" {
			report.add(SeverityError, path, "entries[%d] (%q): day must be empty, got %q", i, e.Keyword, e.Day)
		}
		v.checkEntryCore(report, path, i, e.Keyword, e.Roles, e.Source)
	}
	return entries
}

func (v *Validator) validatePhased(report *Report, structured []model.Entry) {
	path := v.artifacts.Phased
	data, ok := v.readArtifact(report, path, "phase")
	if !ok {
		return
	}
	report.Checked++

	// The day field is dropped on phase assignment, so its key may not
	// appear at all. The typed decode below would hide it.
	var rawEntries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		report.add(SeverityError, path, "failed to parse: %v", err)
		return
	}
	for i, raw := range rawEntries {
		if _, hasDay := raw["day"]; hasDay {
			report.add(SeverityError, path, "entries[%d] still carries the day field", i)
		}
		if _, hasPhase := raw["phase"]; !hasPhase {
			report.add(SeverityError, path, "entries[%d] has no phase field", i)
		}
	}

	var entries []model.PhasedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		report.add(SeverityError, path, "failed to parse: %v", err)
		return
	}

	for i, e := range entries {
		if !e.Phase.Valid() {
			report.add(SeverityError, path, "entries[%d] (%q) has unknown phase %q", i, e.Keyword, e.Phase)
		}
		v.checkEntryCore(report, path, i, e.Keyword, e.Roles, e.Source)
	}

	if structured == nil {
		return
	}
	if len(structured) != len(entries) {
		report.add(SeverityError, path, "structured artifact has %d entries but phased has %d",
			len(structured), len(entries))
		return
	}
	// Phase assignment only swaps day for phase; everything else must
	// survive untouched, at the same index.
	for i := range entries {
		if entries[i].Keyword != structured[i].Keyword {
			report.add(SeverityError, path, "entries[%d] keyword %q does not match structured keyword %q",
				i, entries[i].Keyword, structured[i].Keyword)
		}
		if entries[i].Roles != structured[i].Roles {
			report.add(SeverityError, path, "entries[%d] (%q) roles do not match the structured entry",
				i, entries[i].Keyword)
		}
		if entries[i].Source != structured[i].Source {
			report.add(SeverityError, path, "entries[%d] source %q does not match structured source %q",
				i, entries[i].Source, structured[i].Source)
		}
	}
}

// checkEntryCore validates the fields structured and phased entries share.
func (v *Validator) checkEntryCore(report *Report, path string, i int, keyword string, roles model.Roles, source string) {
	if keyword == "" {
		report.add(SeverityError, path, "entries[%d] has no keyword", i)
	}
	if roles.Citizen.OriginalSentence != roles.Citizen.ExactSentence {
		report.add(SeverityError, path, "entries[%d] (%q): original and exact sentence differ", i, keyword)
	}
	if source == "" {
		report.add(SeverityError, path, "entries[%d] (%q) has no source", i, keyword)
	}
	if roles.Citizen.ExactSentence == "" {
		report.add(SeverityWarning, path, "entries[%d] (%q) has no evidence sentence", i, keyword)
	}
	if roles.Designer.DesignSuggestion == "" {
		report.add(SeverityWarning, path, "entries[%d] (%q) has no design suggestion", i, keyword)
	}
	if roles.Planner.PlanningSuggestion == "" {
		report.add(SeverityWarning, path, "entries[%d] (%q) has no planning suggestion", i, keyword)
	}
}

// readArtifact loads an artifact, recording a warning when it does not
// exist and an error when it cannot be read.
func (v *Validator) readArtifact(report *Report, path, command string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.add(SeverityWarning, path, "not found (run 'civiclens %s' first)", command)
		} else {
			report.add(SeverityError, path, "failed to read: %v", err)
		}
		return nil, false
	}
	return data, true
}
