package adapters

import (
	"github.com/google/wire"
	"github.com/twokey/keybuilder/internal/adapters/archive"
	"github.com/twokey/keybuilder/internal/adapters/cas"
	"github.com/twokey/keybuilder/internal/adapters/fs"
	"github.com/twokey/keybuilder/internal/adapters/git"
	"github.com/twokey/keybuilder/internal/adapters/interactive"
	"github.com/twokey/keybuilder/internal/adapters/runner"
	"github.com/twokey/keybuilder/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactRepositoryAdapter,
	wire.Bind(new(usecase.ArtifactRepository), new(*fs.ArtifactRepositoryAdapter)),

	fs.NewWhitelistStoreAdapter,
	wire.Bind(new(usecase.WhitelistRepository), new(*fs.WhitelistStoreAdapter)),

	fs.NewProxyStoreAdapter,
	wire.Bind(new(usecase.ProxyAddressRepository), new(*fs.ProxyStoreAdapter)),

	fs.NewBundleRepositoryAdapter,
	wire.Bind(new(usecase.BundleRepository), new(*fs.BundleRepositoryAdapter)),

	fs.NewPointerStoreAdapter,
	wire.Bind(new(usecase.ManifestPointerStore), new(*fs.PointerStoreAdapter)),

	fs.NewProgressStoreAdapter,
	wire.Bind(new(usecase.MigrationProgressStore), new(*fs.ProgressStoreAdapter)),

	fs.NewSelectionReaderAdapter,
	wire.Bind(new(usecase.SelectionReader), new(*fs.SelectionReaderAdapter)),

	fs.NewMigrationCatalogAdapter,
	wire.Bind(new(usecase.MigrationCatalog), new(*fs.MigrationCatalogAdapter)),

	fs.NewSubmoduleRepositoryAdapter,
	wire.Bind(new(usecase.SubmoduleRepository), new(*fs.SubmoduleRepositoryAdapter)),

	fs.NewPackageVersionAdapter,
	wire.Bind(new(usecase.PackageVersionStore), new(*fs.PackageVersionAdapter)),
)

// GitSet provides the version control implementation
var GitSet = wire.NewSet(
	git.NewCLIAdapter,
	wire.Bind(new(usecase.VersionControl), new(*git.CLIAdapter)),
)

// ArchiveSet provides the build archiver
var ArchiveSet = wire.NewSet(
	archive.NewTarGzAdapter,
	wire.Bind(new(usecase.Archiver), new(*archive.TarGzAdapter)),
)

// RunnerSet provides the external runner implementations
var RunnerSet = wire.NewSet(
	runner.NewRunnerAdapter,
	wire.Bind(new(usecase.MigrationRunner), new(*runner.RunnerAdapter)),
	wire.Bind(new(usecase.SubmoduleBuilder), new(*runner.RunnerAdapter)),
)

// CASSet provides the content-addressed store
var CASSet = wire.NewSet(
	cas.NewContentStore,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	GitSet,
	ArchiveSet,
	RunnerSet,
	CASSet,
	InteractiveSet,
)
