package output

// FormatOutput is the JSON document written by the format command.
type FormatOutput struct {
	Files   []FileResult  `json:"files"`
	Summary FormatSummary `json:"summary"`
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Diff       string `json:"diff,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// FormatSummary counts files per outcome.
type FormatSummary struct {
	Total      int    `json:"total"`
	Formatted  int    `json:"formatted"`
	Changed    int    `json:"would_reformat"`
	Unchanged  int    `json:"unchanged"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
	RunID      string `json:"run_id"`
}
