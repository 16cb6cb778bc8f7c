//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/twokey/keybuilder/internal/adapters"
	"github.com/twokey/keybuilder/internal/config"
	"github.com/twokey/keybuilder/internal/logging"
	"github.com/twokey/keybuilder/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewBuildArchive,
		wire.Bind(new(usecase.BuildRestorer), new(*usecase.BuildArchive)),
		wire.Bind(new(usecase.BuildSnapshotter), new(*usecase.BuildArchive)),
		usecase.NewAnalyzeChanges,
		wire.Bind(new(usecase.ChangeAnalyzer), new(*usecase.AnalyzeChanges)),
		usecase.NewGenerateBundles,
		usecase.NewPublishVersions,
		usecase.NewRunMigrations,
		usecase.NewUpgradeContracts,
		usecase.NewStages,
		usecase.NewDeployRelease,
		usecase.NewMigrateNetworks,
		usecase.NewSyncSubmodules,

		// App
		NewApp,
	)
	return nil, nil
}
