package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"docs-orchestrator/core/models"
)

// Runner invokes the external documentation generator for one job.
// The orchestrator does not know or care what the command does; it
// only needs the exit code and combined output. ctx carries the hard
// timeout.
type Runner interface {
	Run(ctx context.Context, project models.ProjectConfig, payload models.PushEvent) (exitCode int, output string, err error)
}

// CommandRunner runs the configured generator command through a shell,
// passing the job's details via environment variables. This is the
// only place the orchestrator touches the outside world for a job; all
// filesystem and network side effects belong to the command itself.
type CommandRunner struct {
	Command string
}

// NewCommandRunner creates a runner for the given shell command.
func NewCommandRunner(command string) *CommandRunner {
	return &CommandRunner{Command: command}
}

// Run executes the command and returns its exit code and combined
// stdout/stderr. When ctx expires the process is killed; the caller
// classifies that as a timeout via ctx.Err.
func (r *CommandRunner) Run(ctx context.Context, project models.ProjectConfig, payload models.PushEvent) (int, string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", r.Command)
	cmd.Env = append(os.Environ(),
		"DOCS_PROJECT="+project.Identifier,
		"DOCS_WORKSPACE="+project.WorkspacePath,
		"DOCS_BRANCH="+project.DefaultBranch,
		"DOCS_COMMIT="+payload.After,
		"DOCS_REF="+payload.Ref,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), out.String(), nil
		}
		return -1, out.String(), err
	}
	return 0, out.String(), nil
}
