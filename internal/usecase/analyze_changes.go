package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twokey/keybuilder/internal/domain"
)

// BuildRestorer restores the last archived build output
type BuildRestorer interface {
	Restore(ctx context.Context) error
}

// AnalyzeChangesParams contains parameters for change analysis
type AnalyzeChangesParams struct {
	// Branch overrides the current branch when set
	Branch string
}

// AnalyzeChangesResult contains the computed change set and how it was derived
type AnalyzeChangesResult struct {
	Track        domain.Track
	BaseTag      string
	ChangedFiles []string
	// NeverDeployed lists changed singletons dropped because no deployment was ever recorded
	NeverDeployed []string
	ChangeSet     domain.ChangeSet
}

// AnalyzeChanges computes which contract groups changed since the last release of the current track
type AnalyzeChanges struct {
	vcs       VersionControl
	restorer  BuildRestorer
	artifacts ArtifactRepository
	log       *slog.Logger
}

// NewAnalyzeChanges creates a new AnalyzeChanges use case
func NewAnalyzeChanges(
	vcs VersionControl,
	restorer BuildRestorer,
	artifacts ArtifactRepository,
	log *slog.Logger,
) *AnalyzeChanges {
	return &AnalyzeChanges{
		vcs:       vcs,
		restorer:  restorer,
		artifacts: artifacts,
		log:       log.With("component", "AnalyzeChanges"),
	}
}

// Run executes the change analysis
func (uc *AnalyzeChanges) Run(ctx context.Context, params AnalyzeChangesParams) (*AnalyzeChangesResult, error) {
	branch := params.Branch
	if branch == "" {
		var err error
		branch, err = uc.vcs.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve current branch: %w", err)
		}
	}

	track, err := domain.TrackForBranch(branch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	tags, err := uc.vcs.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	baseTag, err := track.LatestTag(tags)
	if err != nil {
		return nil, err
	}

	files, err := uc.vcs.ChangedFiles(ctx, baseTag)
	if err != nil {
		return nil, fmt.Errorf("failed to diff against %s: %w", baseTag, err)
	}
	uc.log.Debug("computed diff", "base", baseTag, "files", len(files))

	changeSet := domain.BuildChangeSet(files)

	// Eligibility needs the last deployed artifacts, not whatever is on disk.
	if err := uc.restorer.Restore(ctx); err != nil {
		return nil, err
	}

	eligible, dropped, err := uc.filterDeployed(ctx, changeSet.SingletonsChanged)
	if err != nil {
		return nil, err
	}

	return &AnalyzeChangesResult{
		Track:         track,
		BaseTag:       baseTag,
		ChangedFiles:  files,
		NeverDeployed: dropped,
		ChangeSet:     changeSet.WithSingletons(eligible),
	}, nil
}

// filterDeployed splits names into contracts with a recorded deployment and those without.
func (uc *AnalyzeChanges) filterDeployed(ctx context.Context, names []string) ([]string, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}
	if !uc.artifacts.Exists() {
		return nil, append([]string(nil), names...), nil
	}
	registry, err := uc.artifacts.Registry(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index artifacts: %w", err)
	}

	var eligible, dropped []string
	for _, name := range names {
		deployed, err := deployedBefore(registry, name)
		if err != nil {
			return nil, nil, err
		}
		if deployed {
			eligible = append(eligible, name)
		} else {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) > 0 {
		uc.log.Info("skipping contracts that were never deployed", "contracts", dropped)
	}
	return eligible, dropped, nil
}

func deployedBefore(registry *domain.ContractRegistry, name string) (bool, error) {
	artifact, err := registry.Load(name)
	if err != nil {
		var unknown domain.UnknownContractError
		if errors.As(err, &unknown) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load artifact %s: %w", name, err)
	}
	return artifact.IsDeployed(), nil
}
