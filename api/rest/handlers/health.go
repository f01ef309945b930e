package handlers

import (
	"net/http"
	"time"

	"docs-orchestrator/core/scheduler"
)

// HealthHandler reports process liveness and live queue state.
type HealthHandler struct {
	scheduler *scheduler.Scheduler
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(sched *scheduler.Scheduler) *HealthHandler {
	return &HealthHandler{
		scheduler: sched,
		startedAt: time.Now(),
	}
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Uptime      int64  `json:"uptime"`
	ActiveJobs  int    `json:"activeJobs"`
	QueueLength int    `json:"queueLength"`
}

// Health handles GET /health. Always 200, no side effects; the counts
// reflect the scheduler's state at the time of the request.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	active, queued := h.scheduler.Stats()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      int64(time.Since(h.startedAt).Seconds()),
		ActiveJobs:  active,
		QueueLength: queued,
	})
}
