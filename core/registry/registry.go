package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"docs-orchestrator/core/models"
)

// Registry maps project identifiers to their configuration. It is
// loaded once at startup and read-only afterwards; editing the
// registry file takes effect on the next restart.
type Registry struct {
	projects map[string]models.ProjectConfig
}

type registryFile struct {
	Projects []models.ProjectConfig `yaml:"projects"`
}

// LoadProjects reads the registry YAML at path. A load failure is
// fatal to the caller: the server must not start serving webhooks
// without a project registry.
func LoadProjects(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry file: %w", err)
	}

	projects := make(map[string]models.ProjectConfig, len(file.Projects))
	for _, p := range file.Projects {
		if p.Identifier == "" {
			return nil, fmt.Errorf("registry entry missing identifier")
		}
		if _, exists := projects[p.Identifier]; exists {
			return nil, fmt.Errorf("duplicate project identifier %q", p.Identifier)
		}
		projects[p.Identifier] = p
	}

	return &Registry{projects: projects}, nil
}

// Get looks up a project by identifier.
func (r *Registry) Get(identifier string) (models.ProjectConfig, bool) {
	p, ok := r.projects[identifier]
	return p, ok
}

// Count returns the number of registered projects.
func (r *Registry) Count() int {
	return len(r.projects)
}
