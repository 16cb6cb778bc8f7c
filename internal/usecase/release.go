package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// DeployReleaseParams contains parameters for a full deployment
type DeployReleaseParams struct {
	Networks []string
	Flags    domain.RunFlags
	// SkipConfirm skips the "Proceed?" prompt
	SkipConfirm bool
}

// DeployReleaseResult contains the final pipeline context
type DeployReleaseResult struct {
	// Aborted is set when the operator declined to proceed
	Aborted bool
	Context domain.PipelineContext
}

// DeployRelease runs the full pipeline: restore, migrate, archive, generate,
// publish, version bump and push. Any failure resets the working tree.
type DeployRelease struct {
	cfg       *config.RuntimeConfig
	vcs       VersionControl
	stages    *Stages
	confirmer Confirmer
	progress  ProgressSink
	now       func() time.Time
	log       *slog.Logger
}

// NewDeployRelease creates a new DeployRelease use case
func NewDeployRelease(
	cfg *config.RuntimeConfig,
	vcs VersionControl,
	stages *Stages,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployRelease {
	return &DeployRelease{
		cfg:       cfg,
		vcs:       vcs,
		stages:    stages,
		confirmer: confirmer,
		progress:  progress,
		now:       time.Now,
		log:       log.With("component", "DeployRelease"),
	}
}

// Run executes the deployment
func (uc *DeployRelease) Run(ctx context.Context, params DeployReleaseParams) (*DeployReleaseResult, error) {
	pc, err := newPipelineContext(ctx, uc.cfg, uc.vcs, params.Networks, params.Flags)
	if err != nil {
		return nil, err
	}

	if !params.SkipConfirm && !uc.cfg.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, "This will start deployment process. Proceed?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return &DeployReleaseResult{Aborted: true, Context: pc}, nil
		}
	}

	out, err := RunStages(ctx, pc, uc.Plan(pc), uc.progress, uc.log)
	if err != nil {
		uc.log.Error("deployment failed, resetting working tree", "error", err)
		// The run may have failed because ctx expired; the reset must still happen.
		if resetErr := uc.vcs.ResetHard(context.WithoutCancel(ctx)); resetErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to reset working tree: %w", resetErr))
		}
		return &DeployReleaseResult{Context: out}, err
	}
	return &DeployReleaseResult{Context: out}, nil
}

// Plan returns the stages a deployment with pc's flags runs.
func (uc *DeployRelease) Plan(pc domain.PipelineContext) []Stage {
	s := uc.stages
	stages := []Stage{s.Preflight(), s.PrepareBuild()}
	if !pc.Flags.ProtocolOnly {
		if pc.Flags.Update {
			stages = append(stages, s.Upgrade())
		}
		if pc.Flags.Reset {
			stages = append(stages, s.Migrate(true))
		}
	}
	stages = append(stages,
		s.Archive(),
		s.Generate(true),
		s.Publish(true),
		s.Commit(DeployedMessage(uc.now)),
	)
	if !pc.IsLocal() || uc.cfg.ForcePublish {
		stages = append(stages, s.BumpVersion(), s.Commit(ReleasedMessage), s.Tag())
	}
	return append(stages, s.Push())
}

// MigrateNetworksParams contains parameters for the migrate mode
type MigrateNetworksParams struct {
	Networks []string
	Reset    bool
}

// MigrateNetworks runs pending migrations and regenerates the bundles
type MigrateNetworks struct {
	cfg      *config.RuntimeConfig
	vcs      VersionControl
	stages   *Stages
	progress ProgressSink
	log      *slog.Logger
}

// NewMigrateNetworks creates a new MigrateNetworks use case
func NewMigrateNetworks(cfg *config.RuntimeConfig, vcs VersionControl, stages *Stages, progress ProgressSink, log *slog.Logger) *MigrateNetworks {
	return &MigrateNetworks{
		cfg:      cfg,
		vcs:      vcs,
		stages:   stages,
		progress: progress,
		log:      log.With("component", "MigrateNetworks"),
	}
}

// Run executes the migrations then the generation
func (uc *MigrateNetworks) Run(ctx context.Context, params MigrateNetworksParams) (domain.PipelineContext, error) {
	pc, err := newPipelineContext(ctx, uc.cfg, uc.vcs, params.Networks, domain.RunFlags{Reset: params.Reset})
	if err != nil {
		return pc, err
	}
	return RunStages(ctx, pc, []Stage{
		uc.stages.Migrate(false),
		uc.stages.Generate(uc.cfg.ForceDeployment),
	}, uc.progress, uc.log)
}

// SyncSubmodules regenerates the bundles, builds the submodules and publishes them
type SyncSubmodules struct {
	cfg      *config.RuntimeConfig
	stages   *Stages
	progress ProgressSink
	log      *slog.Logger
}

// NewSyncSubmodules creates a new SyncSubmodules use case
func NewSyncSubmodules(cfg *config.RuntimeConfig, stages *Stages, progress ProgressSink, log *slog.Logger) *SyncSubmodules {
	return &SyncSubmodules{
		cfg:      cfg,
		stages:   stages,
		progress: progress,
		log:      log.With("component", "SyncSubmodules"),
	}
}

// Run executes generation and publishing
func (uc *SyncSubmodules) Run(ctx context.Context) (domain.PipelineContext, error) {
	pc := domain.PipelineContext{Branch: uc.cfg.Branch}
	return RunStages(ctx, pc, []Stage{
		uc.stages.Generate(uc.cfg.ForceDeployment),
		uc.stages.Publish(true),
	}, uc.progress, uc.log)
}

func newPipelineContext(ctx context.Context, cfg *config.RuntimeConfig, vcs VersionControl, networks []string, flags domain.RunFlags) (domain.PipelineContext, error) {
	names := splitNetworks(networks)
	if len(names) == 0 {
		return domain.PipelineContext{}, domain.ConfigError{Key: "networks", Reason: "at least one network is required"}
	}
	branch := cfg.Branch
	if branch == "" {
		var err error
		if branch, err = vcs.CurrentBranch(ctx); err != nil {
			return domain.PipelineContext{}, fmt.Errorf("failed to resolve current branch: %w", err)
		}
	}
	pc := domain.PipelineContext{
		Branch:   branch,
		Networks: cfg.Networks(names),
		Flags:    flags,
	}
	if track, err := domain.TrackForBranch(branch); err == nil {
		pc.Track = track
	}
	return pc, nil
}

// splitNetworks accepts both repeated and comma-separated network lists.
func splitNetworks(in []string) []string {
	var out []string
	for _, arg := range in {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
