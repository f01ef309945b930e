package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docs-orchestrator/api/rest/routes"
	"docs-orchestrator/config"
	"docs-orchestrator/core/executor"
	"docs-orchestrator/core/registry"
	"docs-orchestrator/core/repository"
	"docs-orchestrator/core/scheduler"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.WebhookSecret == "" {
		log.Println("WARN: WEBHOOK_SECRET is not set; all webhook requests will be rejected")
	}

	// Load the project registry. Without it there is nothing to serve.
	reg, err := registry.LoadProjects(cfg.ProjectsFile)
	if err != nil {
		log.Fatalf("Failed to load project registry: %v", err)
	}
	log.Printf("Loaded %d projects from %s", reg.Count(), cfg.ProjectsFile)

	// Optional job history database
	var history *repository.HistoryRepository
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		history = repository.NewHistoryRepository(db)
		if err := history.EnsureSchema(); err != nil {
			log.Fatalf("Failed to prepare job_history table: %v", err)
		}
		log.Println("Job history recording enabled")
	} else {
		log.Println("DATABASE_URL not set; job history recording disabled")
	}

	// Initialize executor and scheduler
	runner := executor.NewCommandRunner(cfg.GenerateCommand)
	jobTimeout := time.Duration(cfg.JobTimeoutMinutes) * time.Minute
	jobExecutor := executor.NewExecutor(runner, jobTimeout, cfg.OutputCaptureLimit, history)
	sched := scheduler.NewScheduler(jobExecutor, cfg.MaxConcurrentJobs)

	restarter := executor.NewCommandRestarter(cfg.RestartCommand, 2*time.Minute)

	// Setup routes
	r := mux.NewRouter()
	routes.SetupRoutes(r, reg, sched, restarter, history, cfg.WebhookSecret)

	// Start server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on port %s (max %d concurrent jobs, %v job timeout)",
			cfg.ServerPort, cfg.MaxConcurrentJobs, jobTimeout)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let running jobs finish; queued jobs not yet started are lost.
	drainCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := sched.Wait(drainCtx); err != nil {
		log.Printf("Shutdown before all jobs finished: %v", err)
	}
	log.Println("Server exited")
}
