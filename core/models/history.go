package models

import "time"

// HistoryEntry is one recorded job outcome, as stored in the optional
// job_history table.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Project    string    `json:"project"`
	Commit     string    `json:"commit"`
	Ref        string    `json:"ref"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	TimedOut   bool      `json:"timed_out"`
	DurationMs int64     `json:"duration_ms"`
	Output     string    `json:"output"`
	FinishedAt time.Time `json:"finished_at"`
}
