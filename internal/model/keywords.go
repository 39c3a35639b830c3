package model

// KeywordScore is one ranked keyphrase for a source file.
type KeywordScore struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// FileKeywords holds the keyword-ranking results for a single corpus file.
type FileKeywords struct {
	Filename         string         `json:"filename"`
	Filepath         string         `json:"filepath"`
	Keywords         []KeywordScore `json:"keywords"`
	ExampleSentences []string       `json:"example_sentences"`
}

// KeywordsSummary is the summary block of the keywords artifact.
type KeywordsSummary struct {
	FilesProcessed int `json:"files_processed"`
}

// KeywordsArtifact is the persisted output of the keyword-ranking stage
// and the input of the entry-building stage.
type KeywordsArtifact struct {
	Summary KeywordsSummary `json:"summary"`
	Results []FileKeywords  `json:"results"`
}
