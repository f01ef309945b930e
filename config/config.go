package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// Server
	ServerPort string

	// Webhook authentication
	WebhookSecret string

	// Registry
	ProjectsFile string

	// Scheduling
	MaxConcurrentJobs  int
	JobTimeoutMinutes  int
	OutputCaptureLimit int

	// External commands
	GenerateCommand string
	RestartCommand  string

	// Optional job history database
	DatabaseURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),
		ProjectsFile:       getEnv("PROJECTS_FILE", "projects.yaml"),
		MaxConcurrentJobs:  getEnvInt("MAX_CONCURRENT_JOBS", 2),
		JobTimeoutMinutes:  getEnvInt("JOB_TIMEOUT_MINUTES", 30),
		OutputCaptureLimit: getEnvInt("OUTPUT_CAPTURE_LIMIT", 500),
		GenerateCommand:    getEnv("GENERATE_COMMAND", "./scripts/generate-docs.sh"),
		RestartCommand:     getEnv("RESTART_COMMAND", "./scripts/restart-service.sh"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
