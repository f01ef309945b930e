package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"docs-orchestrator/core/executor"
	"docs-orchestrator/core/models"
	"docs-orchestrator/core/registry"
	"docs-orchestrator/core/scheduler"
	"docs-orchestrator/core/security"

	"github.com/google/uuid"
)

// SignatureHeader is the header carrying the sender's HMAC signature.
const SignatureHeader = "X-Hub-Signature-256"

var mergeMarkers = []string{"Merge pull request", "Merge branch"}

// WebhookHandler handles signed webhook requests from CI.
type WebhookHandler struct {
	registry  *registry.Registry
	scheduler *scheduler.Scheduler
	restarter executor.ServiceRestarter
	secret    string
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(
	reg *registry.Registry,
	sched *scheduler.Scheduler,
	restarter executor.ServiceRestarter,
	secret string,
) *WebhookHandler {
	return &WebhookHandler{
		registry:  reg,
		scheduler: sched,
		restarter: restarter,
		secret:    secret,
	}
}

// GenerateDocsResponse is returned when a job is accepted.
type GenerateDocsResponse struct {
	Status        string `json:"status"`
	JobID         string `json:"job_id"`
	QueuePosition int    `json:"queue_position"`
}

// GenerateDocs handles POST /webhook/generate-docs. The response is
// synchronous accept/reject only: enqueue happens before the 202, job
// execution after it, and the submitter gets no further signal.
func (h *WebhookHandler) GenerateDocs(w http.ResponseWriter, r *http.Request) {
	payload, project, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if !project.Enabled {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "skipped",
			"message": "project is disabled",
		})
		return
	}

	job := &models.Job{
		ID:      uuid.NewString(),
		Project: project,
		Payload: payload,
	}
	position := h.scheduler.Enqueue(job)

	writeJSON(w, http.StatusAccepted, GenerateDocsResponse{
		Status:        "queued",
		JobID:         job.ID,
		QueuePosition: position,
	})
}

// RestartService handles POST /webhook/restart-service. Only a merge
// to the project's default branch triggers a restart; any other event
// is a no-op, not an error, since receiving the webhook itself is
// legitimate.
func (h *WebhookHandler) RestartService(w http.ResponseWriter, r *http.Request) {
	payload, project, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if payload.Ref != "refs/heads/"+project.DefaultBranch || !isMergeCommit(payload.HeadCommit.Message) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ignored",
			"message": "not a merge to the default branch",
		})
		return
	}

	if !project.Restart.Enabled {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "skipped",
			"message": "restart disabled for project",
		})
		return
	}

	go func() {
		if err := h.restarter.Restart(context.Background(), project); err != nil {
			log.Printf("Restart for project %s failed: %v", project.Identifier, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "restarting",
		"project": project.Identifier,
	})
}

// authenticate runs the shared admission path: signature check,
// payload parse, project lookup. On failure it writes the error
// response and returns ok=false.
func (h *WebhookHandler) authenticate(w http.ResponseWriter, r *http.Request) (models.PushEvent, models.ProjectConfig, bool) {
	var payload models.PushEvent
	var project models.ProjectConfig

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return payload, project, false
	}

	if !security.VerifySignature(body, r.Header.Get(SignatureHeader), h.secret) {
		// Do not log the signature value itself.
		log.Printf("Rejected webhook from %s: signature verification failed", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return payload, project, false
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return payload, project, false
	}
	if payload.Repository.Name == "" {
		http.Error(w, "missing repository name", http.StatusBadRequest)
		return payload, project, false
	}

	project, ok := h.registry.Get(payload.Repository.Name)
	if !ok {
		log.Printf("Webhook for unknown project %q", payload.Repository.Name)
		http.Error(w, "unknown project", http.StatusNotFound)
		return payload, project, false
	}

	return payload, project, true
}

func isMergeCommit(message string) bool {
	for _, marker := range mergeMarkers {
		if strings.HasPrefix(message, marker) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
