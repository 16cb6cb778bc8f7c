package usecase

import (
	"context"

	"github.com/twokey/keybuilder/internal/domain"
)

// VersionControl is the subset of source control the pipeline consumes
type VersionControl interface {
	CurrentBranch(ctx context.Context) (string, error)
	Tags(ctx context.Context) ([]string, error)
	// ChangedFiles lists paths that differ between ref and the working tree
	ChangedFiles(ctx context.Context, ref string) ([]string, error)
	Status(ctx context.Context) (*domain.WorkTreeStatus, error)
	Fetch(ctx context.Context) error
	// ResetHard discards uncommitted changes back to the last commit
	ResetHard(ctx context.Context) error
	CommitAll(ctx context.Context, message string) error
	Tag(ctx context.Context, name string) error
	Push(ctx context.Context, branch string) error
	PushTags(ctx context.Context) error
}

// Archiver packs and unpacks a directory tree as a single compressed file
type Archiver interface {
	Pack(ctx context.Context, srcDir, archivePath string) error
	Unpack(ctx context.Context, archivePath, destDir string) error
}

// ArtifactRepository exposes the compiled-artifact directory
type ArtifactRepository interface {
	// Exists reports whether the build output directory exists
	Exists() bool
	// Registry indexes the artifact directory as it is now
	Registry(ctx context.Context) (*domain.ContractRegistry, error)
}

// WhitelistRepository loads the contract routing whitelist
type WhitelistRepository interface {
	Load(ctx context.Context) (domain.Whitelist, error)
}

// ProxyAddressRepository loads the proxy address overlay written by the deployer
type ProxyAddressRepository interface {
	Load(ctx context.Context) (domain.ProxyAddressMap, error)
}

// BundleRepository persists generated bundles and the deployed-contracts record
type BundleRepository interface {
	SaveBundles(ctx context.Context, set *domain.BundleSet) error
	SaveDeployedRecord(ctx context.Context, record domain.DeployedRecord, copyToDist bool) error
}

// ContentStore is a content-addressed publish target
type ContentStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, pointer string) ([]byte, error)
}

// SubmoduleRepository lists the built submodule bundles to publish
type SubmoduleRepository interface {
	List(ctx context.Context) ([]domain.Submodule, error)
}

// SubmoduleBuilder builds the submodule bundles with an external tool
type SubmoduleBuilder interface {
	Build(ctx context.Context) error
}

// ManifestPointerStore persists the latest manifest pointer
type ManifestPointerStore interface {
	Load(ctx context.Context) (domain.ManifestPointers, error)
	Save(ctx context.Context, pointers domain.ManifestPointers) error
}

// MigrationRunner drives the external compiler/migration runner
type MigrationRunner interface {
	Compile(ctx context.Context) error
	RunMigration(ctx context.Context, network string, index int, extraArgs []string) error
}

// MigrationCatalog lists the migrations available to the runner
type MigrationCatalog interface {
	Count(ctx context.Context) (int, error)
}

// MigrationProgressStore persists the last successful migration per network
type MigrationProgressStore interface {
	Load(ctx context.Context) (domain.MigrationProgress, error)
	Save(ctx context.Context, progress domain.MigrationProgress) error
}

// SelectionReader reads the manual deployment selection file
type SelectionReader interface {
	Load(ctx context.Context) (*domain.ChangeSet, error)
}

// PackageVersionStore reads and writes the protocol package version
type PackageVersionStore interface {
	Version(ctx context.Context) (string, error)
	SetVersion(ctx context.Context, version string) error
}

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
