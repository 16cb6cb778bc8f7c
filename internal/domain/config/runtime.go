package config

import (
	"path/filepath"
	"time"

	"github.com/twokey/keybuilder/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	Branch      string

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Environment overrides
	ForceDeployment bool // FORCE_DEPLOYMENT
	Production      bool // NODE_ENV=production
	ForcePublish    bool // FORCE_PUBLISH / FORCE_NPM

	// Resolved configurations
	Project *ProjectConfig
}

// Path resolves a project-relative path.
func (c *RuntimeConfig) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.ProjectRoot, rel)
}

// BranchFile substitutes the current branch into a "{branch}" file template.
func (c *RuntimeConfig) BranchFile(dir, template string) string {
	return filepath.Join(c.Path(dir), domain.BranchScopedName(template, c.Branch))
}

// Network resolves a network by name. Unknown names are still usable; their
// chain class is derived from the name and they carry no network id.
func (c *RuntimeConfig) Network(name string) domain.Network {
	if c.Project != nil {
		if n, ok := c.Project.Networks[name]; ok {
			return domain.Network{Name: name, NetworkID: n.NetworkID, Class: domain.ChainClass(n.Class)}
		}
	}
	return domain.Network{Name: name}
}

// Networks resolves a list of network names.
func (c *RuntimeConfig) Networks(names []string) []domain.Network {
	out := make([]domain.Network, 0, len(names))
	for _, name := range names {
		out = append(out, c.Network(name))
	}
	return out
}
