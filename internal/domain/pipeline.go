package domain

import "maps"

// RunFlags are the mode switches recognised anywhere on the command line.
type RunFlags struct {
	Reset          bool
	Update         bool
	ProtocolOnly   bool
	CPCNoFees      bool
	DeployFromFile bool
}

// PipelineContext is the state threaded through pipeline stages. Stages never
// mutate it; each With* method returns a modified copy.
type PipelineContext struct {
	Branch   string
	Track    Track
	Networks []Network
	Flags    RunFlags

	ChangeSet       *ChangeSet
	Migrations      MigrationPlan
	DeployedTo      map[string]string
	Bundles         *BundleSet
	ManifestPointer string
	ReleaseVersion  string
	Completed       []string
}

// NetworkNames returns the requested network names in order.
func (c PipelineContext) NetworkNames() []string {
	names := make([]string, len(c.Networks))
	for i, n := range c.Networks {
		names[i] = n.Name
	}
	return names
}

// IsLocal reports whether every requested network is a local chain.
func (c PipelineContext) IsLocal() bool {
	if len(c.Networks) == 0 {
		return false
	}
	for _, n := range c.Networks {
		if !n.IsLocal() {
			return false
		}
	}
	return true
}

func (c PipelineContext) clone() PipelineContext {
	out := c
	out.Networks = append([]Network(nil), c.Networks...)
	out.DeployedTo = maps.Clone(c.DeployedTo)
	out.Completed = append([]string(nil), c.Completed...)
	out.Migrations = MigrationPlan{Steps: append([]MigrationStep(nil), c.Migrations.Steps...)}
	return out
}

// WithChangeSet returns a copy carrying cs.
func (c PipelineContext) WithChangeSet(cs ChangeSet) PipelineContext {
	out := c.clone()
	out.ChangeSet = &cs
	return out
}

// WithMigrations returns a copy with plan's steps appended and the
// networks that completed a migration recorded as deployed to.
func (c PipelineContext) WithMigrations(plan MigrationPlan) PipelineContext {
	out := c.clone()
	out.Migrations.Steps = append(out.Migrations.Steps, plan.Steps...)
	if out.DeployedTo == nil {
		out.DeployedTo = map[string]string{}
	}
	for _, step := range plan.Succeeded() {
		for _, n := range c.Networks {
			if n.Name == step.Network {
				out.DeployedTo[n.Name] = n.NetworkID
			}
		}
	}
	return out
}

// WithBundles returns a copy carrying the generated bundle set.
func (c PipelineContext) WithBundles(set *BundleSet) PipelineContext {
	out := c.clone()
	out.Bundles = set
	return out
}

// WithManifestPointer returns a copy carrying the new manifest pointer.
func (c PipelineContext) WithManifestPointer(pointer string) PipelineContext {
	out := c.clone()
	out.ManifestPointer = pointer
	return out
}

// WithReleaseVersion returns a copy carrying the bumped package version.
func (c PipelineContext) WithReleaseVersion(version string) PipelineContext {
	out := c.clone()
	out.ReleaseVersion = version
	return out
}

// WithCompleted returns a copy recording that stage finished.
func (c PipelineContext) WithCompleted(stage string) PipelineContext {
	out := c.clone()
	out.Completed = append(out.Completed, stage)
	return out
}
