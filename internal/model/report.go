package model

import "time"

// StageStats records what a single pipeline stage did.
type StageStats struct {
	Name     string        `json:"name"`
	Items    int           `json:"items"`
	Duration time.Duration `json:"duration"`
}

// RunReport summarizes a full pipeline run for operator output.
type RunReport struct {
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	FilesMatched   int           `json:"files_matched"`
	FilesProcessed int           `json:"files_processed"`
	Entries        int           `json:"entries"`
	PhaseCounts    map[Phase]int `json:"phase_counts"`
	Stages         []StageStats  `json:"stages"`
}

// AddStage appends one stage's statistics to the report.
func (r *RunReport) AddStage(name string, items int, d time.Duration) {
	r.Stages = append(r.Stages, StageStats{Name: name, Items: items, Duration: d})
}
