package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// Stage names
const (
	StagePreflight = "preflight"
	StagePrepare   = "prepare-build"
	StageUpgrade   = "upgrade"
	StageMigrate   = "migrate"
	StageArchive   = "archive"
	StageGenerate  = "generate"
	StagePublish   = "publish"
	StageCommit    = "commit"
	StageBump      = "bump-version"
	StageTag       = "tag"
	StagePush      = "push"
)

// Stages builds the pipeline steps shared by the composite commands
type Stages struct {
	cfg        *config.RuntimeConfig
	vcs        VersionControl
	archive    *BuildArchive
	migrations *RunMigrations
	upgrade    *UpgradeContracts
	generate   *GenerateBundles
	publish    *PublishVersions
	packages   PackageVersionStore
	log        *slog.Logger
}

// NewStages creates the stage factory
func NewStages(
	cfg *config.RuntimeConfig,
	vcs VersionControl,
	archive *BuildArchive,
	migrations *RunMigrations,
	upgrade *UpgradeContracts,
	generate *GenerateBundles,
	publish *PublishVersions,
	packages PackageVersionStore,
	log *slog.Logger,
) *Stages {
	return &Stages{
		cfg:        cfg,
		vcs:        vcs,
		archive:    archive,
		migrations: migrations,
		upgrade:    upgrade,
		generate:   generate,
		publish:    publish,
		packages:   packages,
		log:        log.With("component", "Stages"),
	}
}

// Preflight refuses to run when the branch is behind its remote or has local
// changes outside generated paths.
func (s *Stages) Preflight() Stage {
	return Stage{Name: StagePreflight, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if err := s.vcs.Fetch(ctx); err != nil {
			return pc, fmt.Errorf("failed to fetch: %w", err)
		}
		status, err := s.vcs.Status(ctx)
		if err != nil {
			return pc, fmt.Errorf("failed to read working tree status: %w", err)
		}
		local := status.LocalChanges(s.cfg.Project.Paths.GeneratedPrefixes)
		if status.Behind > 0 || len(local) > 0 {
			return pc, fmt.Errorf("%w: behind by %d, local changes %v", domain.ErrUnsyncedChanges, status.Behind, local)
		}
		return pc, nil
	}}
}

// PrepareBuild discards the build output on a hard reset and restores it from
// the archive otherwise.
func (s *Stages) PrepareBuild() Stage {
	return Stage{Name: StagePrepare, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if pc.Flags.Reset {
			s.log.Info("hard reset: discarding build output and archive")
			return pc, s.archive.Discard(ctx)
		}
		return pc, s.archive.Restore(ctx)
	}}
}

// Upgrade redeploys the changed contract groups.
func (s *Stages) Upgrade() Stage {
	return Stage{Name: StageUpgrade, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		res, err := s.upgrade.Run(ctx, UpgradeContractsParams{
			Networks:        pc.Networks,
			ChangeSet:       pc.ChangeSet,
			FromFile:        pc.Flags.DeployFromFile,
			PaymentHandlers: pc.Flags.CPCNoFees,
		})
		if err != nil {
			return pc, err
		}
		return pc.WithChangeSet(res.ChangeSet).WithMigrations(res.Plan), nil
	}}
}

// Migrate runs pending numbered migrations.
func (s *Stages) Migrate(updateArchive bool) Stage {
	return Stage{Name: StageMigrate, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		res, err := s.migrations.Run(ctx, RunMigrationsParams{
			Networks:      pc.Networks,
			Reset:         pc.Flags.Reset,
			UpdateArchive: updateArchive,
		})
		if err != nil {
			return pc, err
		}
		return pc.WithMigrations(res.Plan), nil
	}}
}

// Archive snapshots the build output, if any.
func (s *Stages) Archive() Stage {
	return Stage{Name: StageArchive, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if !s.archive.HasBuild() {
			s.log.Info("no build output to archive")
			return pc, nil
		}
		return pc, s.archive.Archive(ctx)
	}}
}

// Generate regenerates the interface bundles.
func (s *Stages) Generate(copyToDist bool) Stage {
	return Stage{Name: StageGenerate, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		res, err := s.generate.Run(ctx, GenerateBundlesParams{CopyToDist: copyToDist})
		if err != nil {
			return pc, err
		}
		if res.Skipped {
			return pc, nil
		}
		return pc.WithBundles(res.Set), nil
	}}
}

// Publish publishes the submodules under the generated bundle hash.
func (s *Stages) Publish(build bool) Stage {
	return Stage{Name: StagePublish, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if pc.Bundles == nil {
			return pc, domain.ConfigError{Key: s.cfg.Project.Paths.BuildDir, Reason: "no build output, bundles were not generated"}
		}
		res, err := s.publish.Run(ctx, PublishVersionsParams{Hash: pc.Bundles.NonSingletonsHash, Build: build})
		if err != nil {
			return pc, err
		}
		return pc.WithManifestPointer(res.Pointer), nil
	}}
}

// Commit commits every change with the message built from the context.
func (s *Stages) Commit(message func(domain.PipelineContext) string) Stage {
	return Stage{Name: StageCommit, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		return pc, s.vcs.CommitAll(ctx, message(pc))
	}}
}

// BumpVersion writes the next protocol package version.
func (s *Stages) BumpVersion() Stage {
	return Stage{Name: StageBump, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		current, err := s.packages.Version(ctx)
		if err != nil {
			return pc, fmt.Errorf("failed to read package version: %w", err)
		}
		next, err := domain.NextReleaseVersion(current, domain.ReleaseMode{
			Production: s.cfg.Production,
			Reset:      pc.Flags.Reset,
			Branch:     pc.Branch,
		})
		if err != nil {
			return pc, err
		}
		if err := s.packages.SetVersion(ctx, next); err != nil {
			return pc, fmt.Errorf("failed to write package version: %w", err)
		}
		s.log.Info("bumped package version", "from", current, "to", next)
		return pc.WithReleaseVersion(next), nil
	}}
}

// Tag tags the release version.
func (s *Stages) Tag() Stage {
	return Stage{Name: StageTag, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if pc.ReleaseVersion == "" {
			return pc, nil
		}
		return pc, s.vcs.Tag(ctx, domain.ReleaseTag(pc.ReleaseVersion))
	}}
}

// Push pushes the branch and, when a release was tagged, the tags.
func (s *Stages) Push() Stage {
	return Stage{Name: StagePush, Run: func(ctx context.Context, pc domain.PipelineContext) (domain.PipelineContext, error) {
		if err := s.vcs.Push(ctx, pc.Branch); err != nil {
			return pc, err
		}
		if pc.ReleaseVersion == "" {
			return pc, nil
		}
		return pc, s.vcs.PushTags(ctx)
	}}
}

// DeployedMessage is the commit message after contracts were deployed.
func DeployedMessage(now func() time.Time) func(domain.PipelineContext) string {
	return func(pc domain.PipelineContext) string {
		return fmt.Sprintf("Contracts deployed to %s %s", strings.Join(pc.NetworkNames(), "/"), now().Format("Jan 2, 2006 3:04 PM"))
	}
}

// ReleasedMessage is the commit message after the package version was bumped.
func ReleasedMessage(pc domain.PipelineContext) string {
	return fmt.Sprintf("Version: %s. Deployment finished, submodules synced.", pc.ReleaseVersion)
}
