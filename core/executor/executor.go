package executor

import (
	"context"
	"log"
	"time"

	"docs-orchestrator/core/models"
	"docs-orchestrator/core/repository"
)

// DefaultOutputCap bounds captured generator output when no limit is
// configured.
const DefaultOutputCap = 500

// Executor runs one job via its Runner with a hard timeout and
// classifies the result. It performs no retries: a failed job is
// reported once, through logs and the optional history recorder, and
// dropped. Retry policy belongs to the trigger source (re-push).
type Executor struct {
	runner    Runner
	timeout   time.Duration
	outputCap int
	history   *repository.HistoryRepository
}

// NewExecutor creates an executor. history may be nil, in which case
// outcomes are only logged.
func NewExecutor(runner Runner, timeout time.Duration, outputCap int, history *repository.HistoryRepository) *Executor {
	if outputCap <= 0 {
		outputCap = DefaultOutputCap
	}
	return &Executor{
		runner:    runner,
		timeout:   timeout,
		outputCap: outputCap,
		history:   history,
	}
}

// Execute runs job to completion and returns the classified outcome.
// Exit zero before the deadline is success; non-zero exit is a
// failure; hitting the deadline kills the process and marks the
// outcome timed out.
func (e *Executor) Execute(job *models.Job) models.JobOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	log.Printf("Executing job %s for project %s (commit %s)", job.ID, job.Project.Identifier, job.Payload.After)

	start := time.Now()
	exitCode, output, err := e.runner.Run(ctx, job.Project, job.Payload)

	outcome := models.JobOutcome{
		Duration: time.Since(start),
		ExitCode: exitCode,
		Output:   truncate(output, e.outputCap),
	}

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		outcome.TimedOut = true
	case err != nil:
		log.Printf("Job %s runner error: %v", job.ID, err)
	case exitCode == 0:
		outcome.Success = true
	}

	if !outcome.Success && outcome.Output != "" {
		log.Printf("Job %s output: %s", job.ID, outcome.Output)
	}

	if e.history != nil {
		if err := e.history.RecordOutcome(job, outcome); err != nil {
			log.Printf("Failed to record outcome for job %s: %v", job.ID, err)
		}
	}

	return outcome
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
