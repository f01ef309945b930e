package repository

import (
	"time"

	"docs-orchestrator/core/models"
)

// HistoryRepository records completed job outcomes in the job_history
// table. Recording is best-effort observability: the queue itself is
// never persisted, and an insert failure never fails the job.
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the job_history table if it does not exist.
func (r *HistoryRepository) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS job_history (
			id          UUID PRIMARY KEY,
			project     TEXT NOT NULL,
			commit_id   TEXT NOT NULL,
			ref         TEXT NOT NULL,
			success     BOOLEAN NOT NULL,
			exit_code   INTEGER NOT NULL,
			timed_out   BOOLEAN NOT NULL,
			duration_ms BIGINT NOT NULL,
			output      TEXT NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)
	`
	_, err := r.db.Exec(query)
	return err
}

// RecordOutcome inserts one completed job's outcome.
func (r *HistoryRepository) RecordOutcome(job *models.Job, outcome models.JobOutcome) error {
	query := `
		INSERT INTO job_history (
			id, project, commit_id, ref, success, exit_code, timed_out,
			duration_ms, output, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		job.ID,
		job.Project.Identifier,
		job.Payload.After,
		job.Payload.Ref,
		outcome.Success,
		outcome.ExitCode,
		outcome.TimedOut,
		outcome.Duration.Milliseconds(),
		outcome.Output,
		time.Now(),
	)
	return err
}

// RecentOutcomes returns the most recently finished jobs, newest
// first.
func (r *HistoryRepository) RecentOutcomes(limit int) ([]models.HistoryEntry, error) {
	query := `
		SELECT id, project, commit_id, ref, success, exit_code, timed_out,
		       duration_ms, output, finished_at
		FROM job_history
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		err := rows.Scan(
			&e.ID,
			&e.Project,
			&e.Commit,
			&e.Ref,
			&e.Success,
			&e.ExitCode,
			&e.TimedOut,
			&e.DurationMs,
			&e.Output,
			&e.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
