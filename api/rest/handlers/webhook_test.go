package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-orchestrator/api/rest/handlers"
	"docs-orchestrator/api/rest/routes"
	"docs-orchestrator/core/models"
	"docs-orchestrator/core/registry"
	"docs-orchestrator/core/scheduler"
	"docs-orchestrator/core/security"
)

const testSecret = "test-webhook-secret"

// instantExecutor completes every job immediately and counts them.
type instantExecutor struct {
	executed chan string
}

func (e *instantExecutor) Execute(job *models.Job) models.JobOutcome {
	e.executed <- job.ID
	return models.JobOutcome{Success: true}
}

// recordingRestarter records which projects it was asked to restart.
type recordingRestarter struct {
	calls chan string
}

func (r *recordingRestarter) Restart(ctx context.Context, project models.ProjectConfig) error {
	r.calls <- project.Identifier
	return nil
}

type testEnv struct {
	router    *mux.Router
	scheduler *scheduler.Scheduler
	executor  *instantExecutor
	restarter *recordingRestarter
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "projects.yaml")
	content := `
projects:
  - identifier: docs-site
    enabled: true
    workspace_path: /srv/docs-site
    default_branch: main
    restart:
      enabled: true
      process_name: docs-site-api
  - identifier: dormant
    enabled: false
    default_branch: main
  - identifier: no-restart
    enabled: true
    default_branch: main
    restart:
      enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	reg, err := registry.LoadProjects(path)
	require.NoError(t, err)

	exec := &instantExecutor{executed: make(chan string, 16)}
	sched := scheduler.NewScheduler(exec, 2)
	restarter := &recordingRestarter{calls: make(chan string, 16)}

	r := mux.NewRouter()
	routes.SetupRoutes(r, reg, sched, restarter, nil, testSecret)

	return &testEnv{router: r, scheduler: sched, executor: exec, restarter: restarter}
}

func signedRequest(t *testing.T, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set(handlers.SignatureHeader, security.Sign(body, testSecret))
	return req
}

func pushPayload(repo, commit, ref, message string) map[string]interface{} {
	return map[string]interface{}{
		"repository":  map[string]string{"name": repo},
		"after":       commit,
		"ref":         ref,
		"head_commit": map[string]string{"message": message},
	}
}

func TestGenerateDocsAccepted(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/generate-docs", pushPayload("docs-site", "abc123", "refs/heads/main", "update readme"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp handlers.GenerateDocsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp.Status)
	assert.Equal(t, 1, resp.QueuePosition)
	assert.NotEmpty(t, resp.JobID)

	select {
	case id := <-env.executor.executed:
		assert.Equal(t, resp.JobID, id)
	case <-time.After(time.Second):
		t.Fatal("job was never executed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.scheduler.Wait(ctx))

	// Health reflects the drained queue.
	healthReq := httptest.NewRequest(http.MethodGet, "/health", nil)
	healthRec := httptest.NewRecorder()
	env.router.ServeHTTP(healthRec, healthReq)
	require.Equal(t, http.StatusOK, healthRec.Code)

	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal(healthRec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.ActiveJobs)
	assert.Equal(t, 0, health.QueueLength)
}

func TestGenerateDocsMissingSignature(t *testing.T) {
	env := setupEnv(t)

	body, err := json.Marshal(pushPayload("docs-site", "abc123", "refs/heads/main", ""))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhook/generate-docs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	active, queued := env.scheduler.Stats()
	assert.Equal(t, 0, active)
	assert.Equal(t, 0, queued)
	assert.Empty(t, env.executor.executed)
}

func TestGenerateDocsTamperedBody(t *testing.T) {
	env := setupEnv(t)

	body, err := json.Marshal(pushPayload("docs-site", "abc123", "refs/heads/main", ""))
	require.NoError(t, err)
	sig := security.Sign(body, testSecret)

	tampered := bytes.Replace(body, []byte("abc123"), []byte("abc124"), 1)
	req := httptest.NewRequest(http.MethodPost, "/webhook/generate-docs", bytes.NewReader(tampered))
	req.Header.Set(handlers.SignatureHeader, sig)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateDocsMalformedPayload(t *testing.T) {
	env := setupEnv(t)

	body := []byte("{not json")
	req := httptest.NewRequest(http.MethodPost, "/webhook/generate-docs", bytes.NewReader(body))
	req.Header.Set(handlers.SignatureHeader, security.Sign(body, testSecret))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateDocsMissingRepositoryName(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/generate-docs", pushPayload("", "abc123", "refs/heads/main", ""))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateDocsUnknownProject(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/generate-docs", pushPayload("mystery", "abc123", "refs/heads/main", ""))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.executor.executed)
}

func TestGenerateDocsDisabledProjectNoop(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/generate-docs", pushPayload("dormant", "abc123", "refs/heads/main", ""))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
	assert.Empty(t, env.executor.executed)
}

func TestRestartServiceOnMerge(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/restart-service",
		pushPayload("docs-site", "abc123", "refs/heads/main", "Merge pull request #42 from feature/docs"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case project := <-env.restarter.calls:
		assert.Equal(t, "docs-site", project)
	case <-time.After(time.Second):
		t.Fatal("restarter was never invoked")
	}
}

func TestRestartServiceIgnoresNonDefaultBranch(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/restart-service",
		pushPayload("docs-site", "abc123", "refs/heads/feature", "Merge pull request #42"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
	assert.Empty(t, env.restarter.calls)
}

func TestRestartServiceIgnoresNonMergeCommit(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/restart-service",
		pushPayload("docs-site", "abc123", "refs/heads/main", "fix typo"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
	assert.Empty(t, env.restarter.calls)
}

func TestRestartServiceDisabledPolicy(t *testing.T) {
	env := setupEnv(t)

	req := signedRequest(t, "/webhook/restart-service",
		pushPayload("no-restart", "abc123", "refs/heads/main", "Merge branch 'feature'"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skipped")
	assert.Empty(t, env.restarter.calls)
}

func TestRestartServiceRequiresSignature(t *testing.T) {
	env := setupEnv(t)

	body, err := json.Marshal(pushPayload("docs-site", "abc123", "refs/heads/main", "Merge pull request #1"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhook/restart-service", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.restarter.calls)
}

func TestHistoryDisabledWithoutDatabase(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Enabled)
	assert.Empty(t, resp.Entries)
}
