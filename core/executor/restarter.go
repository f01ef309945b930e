package executor

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"time"

	"docs-orchestrator/core/models"
)

// ServiceRestarter restarts a project's service after a merge to its
// default branch. External collaborator; the orchestrator only needs
// it to succeed or fail.
type ServiceRestarter interface {
	Restart(ctx context.Context, project models.ProjectConfig) error
}

// CommandRestarter restarts services by running the configured
// command with the project's restart policy in the environment.
type CommandRestarter struct {
	Command string
	Timeout time.Duration
}

// NewCommandRestarter creates a restarter for the given shell command.
func NewCommandRestarter(command string, timeout time.Duration) *CommandRestarter {
	return &CommandRestarter{Command: command, Timeout: timeout}
}

// Restart runs the restart command for project.
func (r *CommandRestarter) Restart(ctx context.Context, project models.ProjectConfig) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", r.Command)
	cmd.Env = append(os.Environ(),
		"DOCS_PROJECT="+project.Identifier,
		"DOCS_PROCESS="+project.Restart.ProcessName,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		log.Printf("Restart command for project %s failed: %v (%s)", project.Identifier, err, out.String())
		return err
	}
	log.Printf("Restarted service %s for project %s", project.Restart.ProcessName, project.Identifier)
	return nil
}
