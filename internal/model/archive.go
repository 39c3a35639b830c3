package model

// FileInfo describes one archive entry considered by the acquisition
// stage.
type FileInfo struct {
	Name               string `json:"name"`
	Path               string `json:"path"`
	OriginalPath       string `json:"original_path"`
	IsInterviewRelated bool   `json:"is_interview_related"`
	Size               int64  `json:"size"`
}

// SkippedFile records an archive entry that was rejected and why.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FetchResult summarizes one acquisition run.
type FetchResult struct {
	Extracted []FileInfo    `json:"extracted"`
	Skipped   []SkippedFile `json:"skipped"`
	Total     int           `json:"total"`
}
