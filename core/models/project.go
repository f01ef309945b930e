package models

// ProjectConfig describes one project the orchestrator can generate
// documentation for. Loaded from the registry file at startup and
// immutable for the lifetime of the process.
type ProjectConfig struct {
	Identifier    string        `yaml:"identifier"`
	Enabled       bool          `yaml:"enabled"`
	WorkspacePath string        `yaml:"workspace_path"`
	DefaultBranch string        `yaml:"default_branch"`
	Restart       RestartPolicy `yaml:"restart"`
}

// RestartPolicy controls whether a merge to the default branch should
// restart the project's service, and which process to restart.
type RestartPolicy struct {
	Enabled     bool   `yaml:"enabled"`
	ProcessName string `yaml:"process_name"`
}
