package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// BuildSnapshotter archives the build output after a successful migration
type BuildSnapshotter interface {
	Archive(ctx context.Context) error
}

// RunMigrationsParams contains parameters for running numbered migrations
type RunMigrationsParams struct {
	Networks []domain.Network
	// Reset starts every network from the first migration
	Reset bool
	// UpdateArchive snapshots the build output after every successful migration
	UpdateArchive bool
}

// RunMigrationsResult contains the executed plan
type RunMigrationsResult struct {
	Plan domain.MigrationPlan
}

// RunMigrations runs pending numbered migrations network by network
type RunMigrations struct {
	runner   MigrationRunner
	catalog  MigrationCatalog
	store    MigrationProgressStore
	snapshot BuildSnapshotter
	progress ProgressSink
	log      *slog.Logger
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	runner MigrationRunner,
	catalog MigrationCatalog,
	store MigrationProgressStore,
	snapshot BuildSnapshotter,
	progress ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	if progress == nil {
		progress = NopProgress{}
	}
	return &RunMigrations{
		runner:   runner,
		catalog:  catalog,
		store:    store,
		snapshot: snapshot,
		progress: progress,
		log:      log.With("component", "RunMigrations"),
	}
}

// Run executes the migrations. On failure the returned result still carries
// the plan up to and including the failed step.
func (uc *RunMigrations) Run(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
	if len(params.Networks) == 0 {
		return nil, domain.ConfigError{Key: "networks", Reason: "no networks given"}
	}

	progress, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load migration progress: %w", err)
	}
	count, err := uc.catalog.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	result := &RunMigrationsResult{}
	for _, network := range params.Networks {
		start := progress.StartIndex(network.Name, params.Reset)
		if start > count {
			uc.log.Info("network is up to date", "network", network.Name, "migrations", count)
			continue
		}
		for index := start; index <= count; index++ {
			step := domain.MigrationStep{Network: network.Name, Kind: domain.MigrationNumbered, Index: index}
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:   "migrate",
				Current: index,
				Total:   count,
				Message: fmt.Sprintf("Migrating %s (%d/%d)", network.Name, index, count),
				Spinner: true,
			})

			if err := uc.runner.RunMigration(ctx, network.Name, index, nil); err != nil {
				step.Status = domain.MigrationFailed
				step.Error = err.Error()
				result.Plan.Steps = append(result.Plan.Steps, step)
				return result, &domain.MigrationError{Network: network.Name, Index: index, Err: err}
			}
			step.Status = domain.MigrationSucceeded
			result.Plan.Steps = append(result.Plan.Steps, step)

			progress[network.Name] = index
			if err := uc.store.Save(ctx, progress); err != nil {
				return result, fmt.Errorf("failed to record migration progress: %w", err)
			}
			if params.UpdateArchive {
				if err := uc.snapshot.Archive(ctx); err != nil {
					return result, err
				}
			}
		}
	}

	uc.log.Info("migrations complete", "steps", len(result.Plan.Steps))
	return result, nil
}

// ChangeAnalyzer computes the change set since the last release
type ChangeAnalyzer interface {
	Run(ctx context.Context, params AnalyzeChangesParams) (*AnalyzeChangesResult, error)
}

// UpgradeContractsParams contains parameters for a selective upgrade
type UpgradeContractsParams struct {
	Networks []domain.Network
	// ChangeSet skips change detection when set
	ChangeSet *domain.ChangeSet
	// FromFile reads the change set from the manual selection file
	FromFile bool
	// PaymentHandlers deploys the budget-campaign payment handlers on every network
	PaymentHandlers bool
	// SkipCompile assumes the artifacts are already compiled
	SkipCompile bool
}

// UpgradeContractsResult contains the change set and the executed plan
type UpgradeContractsResult struct {
	ChangeSet domain.ChangeSet
	Plan      domain.MigrationPlan
}

// UpgradeContracts redeploys the contract groups that changed
type UpgradeContracts struct {
	named     domain.NamedMigrations
	runner    MigrationRunner
	analyzer  ChangeAnalyzer
	selection SelectionReader
	whitelist WhitelistRepository
	snapshot  BuildSnapshotter
	progress  ProgressSink
	log       *slog.Logger
}

// NewUpgradeContracts creates a new UpgradeContracts use case
func NewUpgradeContracts(
	cfg *config.RuntimeConfig,
	runner MigrationRunner,
	analyzer ChangeAnalyzer,
	selection SelectionReader,
	whitelist WhitelistRepository,
	snapshot BuildSnapshotter,
	progress ProgressSink,
	log *slog.Logger,
) *UpgradeContracts {
	if progress == nil {
		progress = NopProgress{}
	}
	return &UpgradeContracts{
		named:     domain.NamedMigrations(cfg.Project.Runner.NamedMigrations),
		runner:    runner,
		analyzer:  analyzer,
		selection: selection,
		whitelist: whitelist,
		snapshot:  snapshot,
		progress:  progress,
		log:       log.With("component", "UpgradeContracts"),
	}
}

// Run executes the upgrade
func (uc *UpgradeContracts) Run(ctx context.Context, params UpgradeContractsParams) (*UpgradeContractsResult, error) {
	// Analysis restores the archived build, so it has to precede compilation.
	cs, err := uc.resolveChangeSet(ctx, params)
	if err != nil {
		return nil, err
	}
	uc.log.Info("resolved change set", "groups", cs.Groups(), "singletons", cs.SingletonsChanged)

	if !params.SkipCompile {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "compile", Message: "Compiling contracts", Spinner: true})
		if err := uc.runner.Compile(ctx); err != nil {
			return nil, fmt.Errorf("failed to compile contracts: %w", err)
		}
	}

	plan, err := domain.PlanUpgrade(cs, params.Networks, uc.named, domain.UpgradeOptions{
		PaymentHandlers: params.PaymentHandlers,
	})
	if err != nil {
		return nil, err
	}

	result := &UpgradeContractsResult{ChangeSet: cs, Plan: plan}
	for i := range result.Plan.Steps {
		step := &result.Plan.Steps[i]
		step.Status = domain.MigrationRunning
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "upgrade",
			Current: i + 1,
			Total:   len(result.Plan.Steps),
			Message: fmt.Sprintf("Running %s", step),
			Spinner: true,
		})
		if err := uc.runner.RunMigration(ctx, step.Network, step.Index, step.RunnerArgs()); err != nil {
			step.Status = domain.MigrationFailed
			step.Error = err.Error()
			return result, &domain.MigrationError{
				Network: step.Network,
				Index:   step.Index,
				Name:    string(step.Kind),
				Err:     err,
			}
		}
		step.Status = domain.MigrationSucceeded
	}

	if len(result.Plan.Steps) > 0 {
		if err := uc.snapshot.Archive(ctx); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (uc *UpgradeContracts) resolveChangeSet(ctx context.Context, params UpgradeContractsParams) (domain.ChangeSet, error) {
	switch {
	case params.ChangeSet != nil:
		return *params.ChangeSet, nil
	case params.FromFile:
		return uc.readSelection(ctx)
	}
	analysis, err := uc.analyzer.Run(ctx, AnalyzeChangesParams{})
	if err != nil {
		return domain.ChangeSet{}, err
	}
	return analysis.ChangeSet, nil
}

// readSelection loads the manual selection and rejects singletons that the
// bundle whitelist doesn't know.
func (uc *UpgradeContracts) readSelection(ctx context.Context) (domain.ChangeSet, error) {
	selection, err := uc.selection.Load(ctx)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("failed to read deployment selection: %w", err)
	}
	if len(selection.SingletonsChanged) == 0 {
		return *selection, nil
	}
	whitelist, err := uc.whitelist.Load(ctx)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("failed to load whitelist: %w", err)
	}
	unknown := lo.Filter(selection.SingletonsChanged, func(name string, _ int) bool {
		_, ok := whitelist[name]
		return !ok
	})
	if len(unknown) > 0 {
		return domain.ChangeSet{}, domain.ConfigError{
			Key:    "selection.singletons",
			Reason: fmt.Sprintf("not in the contract whitelist: %v", unknown),
		}
	}
	return *selection, nil
}
