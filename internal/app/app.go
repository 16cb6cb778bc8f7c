package app

import (
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selection usecase.SelectionReader
	Progress  usecase.ProgressSink

	// Use cases
	AnalyzeChanges   *usecase.AnalyzeChanges
	BuildArchive     *usecase.BuildArchive
	GenerateBundles  *usecase.GenerateBundles
	PublishVersions  *usecase.PublishVersions
	RunMigrations    *usecase.RunMigrations
	UpgradeContracts *usecase.UpgradeContracts
	DeployRelease    *usecase.DeployRelease
	MigrateNetworks  *usecase.MigrateNetworks
	SyncSubmodules   *usecase.SyncSubmodules
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selection usecase.SelectionReader,
	progress usecase.ProgressSink,
	analyzeChanges *usecase.AnalyzeChanges,
	buildArchive *usecase.BuildArchive,
	generateBundles *usecase.GenerateBundles,
	publishVersions *usecase.PublishVersions,
	runMigrations *usecase.RunMigrations,
	upgradeContracts *usecase.UpgradeContracts,
	deployRelease *usecase.DeployRelease,
	migrateNetworks *usecase.MigrateNetworks,
	syncSubmodules *usecase.SyncSubmodules,
) (*App, error) {
	return &App{
		Config:           cfg,
		Selection:        selection,
		Progress:         progress,
		AnalyzeChanges:   analyzeChanges,
		BuildArchive:     buildArchive,
		GenerateBundles:  generateBundles,
		PublishVersions:  publishVersions,
		RunMigrations:    runMigrations,
		UpgradeContracts: upgradeContracts,
		DeployRelease:    deployRelease,
		MigrateNetworks:  migrateNetworks,
		SyncSubmodules:   syncSubmodules,
	}, nil
}
