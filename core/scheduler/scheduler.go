package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"docs-orchestrator/core/models"
)

// JobExecutor runs one job to completion and classifies its outcome.
type JobExecutor interface {
	Execute(job *models.Job) models.JobOutcome
}

// Scheduler owns the FIFO queue of pending jobs and the count of
// running ones. Jobs begin execution in enqueue order, at most
// maxConcurrency at a time; completion order is not guaranteed.
//
// The queue is unbounded and memory-only: there is no backpressure,
// no deduplication, and no persistence across restarts.
type Scheduler struct {
	mu             sync.Mutex
	pending        []*models.Job
	active         int
	maxConcurrency int
	executor       JobExecutor
	wg             sync.WaitGroup
}

// NewScheduler creates a scheduler dispatching to executor with the
// given concurrency cap. A cap below 1 is raised to 1.
func NewScheduler(executor JobExecutor, maxConcurrency int) *Scheduler {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Scheduler{
		pending:        make([]*models.Job, 0),
		maxConcurrency: maxConcurrency,
		executor:       executor,
	}
}

// Enqueue appends job to the tail of the queue and returns its 1-based
// position among pending jobs. It never blocks: draining happens
// asynchronously. Duplicate submissions are independent entries and
// both execute; callers needing idempotence must dedupe upstream.
func (s *Scheduler) Enqueue(job *models.Job) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.EnqueuedAt = time.Now()
	s.pending = append(s.pending, job)
	position := len(s.pending)

	log.Printf("Enqueued job %s for project %s (position %d)", job.ID, job.Project.Identifier, position)
	s.drainLocked()
	return position
}

// Stats returns the current number of running and pending jobs.
func (s *Scheduler) Stats() (active, queued int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, len(s.pending)
}

// drainLocked starts queued jobs while capacity allows. Callers must
// hold s.mu. A job leaves pending exactly once, at the moment it
// begins execution.
func (s *Scheduler) drainLocked() {
	for len(s.pending) > 0 && s.active < s.maxConcurrency {
		job := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.active++

		s.wg.Add(1)
		go s.runJob(job)
	}
}

// runJob executes one job and re-drains once its slot frees. This
// completion-triggered re-drain is what keeps the queue flowing
// without a polling loop.
func (s *Scheduler) runJob(job *models.Job) {
	defer s.wg.Done()

	outcome := s.executor.Execute(job)
	if outcome.Success {
		log.Printf("Job %s for project %s completed in %v", job.ID, job.Project.Identifier, outcome.Duration)
	} else if outcome.TimedOut {
		log.Printf("Job %s for project %s timed out after %v", job.ID, job.Project.Identifier, outcome.Duration)
	} else {
		log.Printf("Job %s for project %s failed with exit code %d", job.ID, job.Project.Identifier, outcome.ExitCode)
	}

	s.mu.Lock()
	s.active--
	s.drainLocked()
	s.mu.Unlock()
}

// Wait blocks until all started jobs have finished or ctx expires.
// Used by the shutdown path to let in-flight work drain. Jobs still
// sitting in pending when the process exits are lost.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
