package config

import "github.com/twokey/keybuilder/internal/domain"

// ProjectConfig is the keybuilder.toml schema.
type ProjectConfig struct {
	Paths    PathsConfig              `toml:"paths"`
	Networks map[string]NetworkConfig `toml:"networks"`
	Runner   RunnerConfig             `toml:"runner"`
	Publish  PublishConfig            `toml:"publish"`
}

// PathsConfig holds project-relative locations. File names may contain a
// "{branch}" placeholder.
type PathsConfig struct {
	BuildDir          string   `toml:"build_dir"`
	ContractsDir      string   `toml:"contracts_dir"`
	MigrationsDir     string   `toml:"migrations_dir"`
	ArchiveDir        string   `toml:"archive_dir"`
	ArchiveFile       string   `toml:"archive_file"`
	ProtocolSrcDir    string   `toml:"protocol_src_dir"`
	ProtocolDistDir   string   `toml:"protocol_dist_dir"`
	BundlesDir        string   `toml:"bundles_dir"`
	SubmodulesDir     string   `toml:"submodules_dir"`
	DeployedFile      string   `toml:"deployed_file"`
	VersionsFile      string   `toml:"versions_file"`
	WhitelistFile     string   `toml:"whitelist_file"`
	ProxyFile         string   `toml:"proxy_file"`
	SelectionFile     string   `toml:"selection_file"`
	ProgressFile      string   `toml:"progress_file"`
	PackageFile       string   `toml:"package_file"`
	ContentStoreDir   string   `toml:"content_store_dir"`
	GeneratedPrefixes []string `toml:"generated_prefixes"`
}

// NetworkConfig describes a network known to the migration runner.
type NetworkConfig struct {
	NetworkID string `toml:"network_id"`
	Class     string `toml:"class"`
}

// RunnerConfig describes the external compiler/migration runner.
type RunnerConfig struct {
	Bin              string         `toml:"bin"`
	CompileArgs      []string       `toml:"compile_args"`
	MigrateArgs      []string       `toml:"migrate_args"`
	ExtraArgs        []string       `toml:"extra_args"`
	NamedMigrations  map[string]int `toml:"named_migrations"`
	SubmoduleCommand []string       `toml:"submodule_command"`
}

// PublishConfig selects the content-addressed store.
type PublishConfig struct {
	ManifestName string `toml:"manifest_name"`
	Backend      string `toml:"backend"`
	IPFSBin      string `toml:"ipfs_bin"`
	SubmoduleExt string `toml:"submodule_ext"`
}

// Content store backends
const (
	BackendLocalFS = "localfs"
	BackendIPFS    = "ipfs"
)

// DefaultProjectConfig returns the layout of the contracts repository.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			BuildDir:          "build",
			ContractsDir:      "build/contracts",
			MigrationsDir:     "migrations",
			ArchiveDir:        "2key-protocol/src",
			ArchiveFile:       "contracts{branch}.tar.gz",
			ProtocolSrcDir:    "2key-protocol/src",
			ProtocolDistDir:   "2key-protocol/dist",
			BundlesDir:        "2key-protocol/src/contracts",
			SubmodulesDir:     "2key-protocol/dist/submodules",
			DeployedFile:      "contracts_deployed{branch}.json",
			VersionsFile:      "versions{branch}.json",
			WhitelistFile:     "ContractDeploymentWhiteList.json",
			ProxyFile:         "build/proxyAddresses.json",
			SelectionFile:     "scripts/deployments/manualDeploy.json",
			ProgressFile:      "deploy.json",
			PackageFile:       "2key-protocol/dist/package.json",
			ContentStoreDir:   ".keybuilder/cas",
			GeneratedPrefixes: []string{"dist", "contracts.ts", "contracts_deployed"},
		},
		Networks: map[string]NetworkConfig{},
		Runner: RunnerConfig{
			Bin:         "node_modules/.bin/truffle",
			CompileArgs: []string{"compile"},
			MigrateArgs: []string{"migrate"},
			NamedMigrations: map[string]int{
				string(domain.MigrationUpdateSingleton): 7,
				string(domain.MigrationTokenSell):       3,
				string(domain.MigrationDonation):        6,
				string(domain.MigrationCPC):             8,
				string(domain.MigrationCPCNoRewards):    9,
				string(domain.MigrationPaymentHandlers): 10,
			},
		},
		Publish: PublishConfig{
			ManifestName: domain.DefaultManifestName,
			Backend:      BackendLocalFS,
			IPFSBin:      "ipfs",
			SubmoduleExt: ".js",
		},
	}
}
