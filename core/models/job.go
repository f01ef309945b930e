package models

import "time"

// Job is one unit of queued work: a project plus the webhook event
// that triggered it. Jobs live only in memory; a queued or in-flight
// job is lost if the process restarts.
type Job struct {
	ID         string
	Project    ProjectConfig
	Payload    PushEvent
	EnqueuedAt time.Time
}

// PushEvent carries the fields of the inbound webhook payload the
// orchestrator cares about. Everything else in the sender's JSON is
// ignored.
type PushEvent struct {
	Repository struct {
		Name string `json:"name"`
	} `json:"repository"`
	After      string `json:"after"`
	Ref        string `json:"ref"`
	HeadCommit struct {
		Message string `json:"message"`
	} `json:"head_commit"`
}

// JobOutcome is the classified result of one executed job.
type JobOutcome struct {
	Success  bool
	Duration time.Duration
	ExitCode int
	TimedOut bool
	// Output holds combined stdout/stderr, truncated to the configured
	// capture limit so a chatty generator cannot exhaust memory.
	Output string
}
