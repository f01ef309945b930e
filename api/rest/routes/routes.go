package routes

import (
	"docs-orchestrator/api/rest/handlers"
	"docs-orchestrator/core/executor"
	"docs-orchestrator/core/registry"
	"docs-orchestrator/core/repository"
	"docs-orchestrator/core/scheduler"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes.
func SetupRoutes(
	r *mux.Router,
	reg *registry.Registry,
	sched *scheduler.Scheduler,
	restarter executor.ServiceRestarter,
	history *repository.HistoryRepository,
	webhookSecret string,
) {
	webhookHandler := handlers.NewWebhookHandler(reg, sched, restarter, webhookSecret)
	healthHandler := handlers.NewHealthHandler(sched)
	historyHandler := handlers.NewHistoryHandler(history)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/webhook/generate-docs", webhookHandler.GenerateDocs).Methods("POST")
	r.HandleFunc("/webhook/restart-service", webhookHandler.RestartService).Methods("POST")

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/history", historyHandler.RecentHistory).Methods("GET")
}
