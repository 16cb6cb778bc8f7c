package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
	"gopkg.in/yaml.v3"
)

// WhitelistStoreAdapter reads the contract deployment whitelist
type WhitelistStoreAdapter struct {
	path string
}

// NewWhitelistStoreAdapter creates a new WhitelistStoreAdapter
func NewWhitelistStoreAdapter(cfg *config.RuntimeConfig) *WhitelistStoreAdapter {
	return &WhitelistStoreAdapter{path: cfg.Path(cfg.Project.Paths.WhitelistFile)}
}

// Load reads the whitelist. A missing whitelist is a configuration error.
func (s *WhitelistStoreAdapter) Load(_ context.Context) (domain.Whitelist, error) {
	whitelist := domain.Whitelist{}
	found, err := readJSON(s.path, &whitelist)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ConfigError{Key: "paths.whitelist_file", Reason: fmt.Sprintf("%s does not exist", s.path)}
	}
	for name, entry := range whitelist {
		if entry.File == "" {
			return nil, domain.ConfigError{Key: "whitelist." + name, Reason: "no destination file"}
		}
	}
	return whitelist, nil
}

// ProxyStoreAdapter reads the proxy address overlay written by the deployer
type ProxyStoreAdapter struct {
	path string
}

// NewProxyStoreAdapter creates a new ProxyStoreAdapter
func NewProxyStoreAdapter(cfg *config.RuntimeConfig) *ProxyStoreAdapter {
	return &ProxyStoreAdapter{path: cfg.Path(cfg.Project.Paths.ProxyFile)}
}

// Load reads the overlay. A missing file is an empty overlay.
func (s *ProxyStoreAdapter) Load(_ context.Context) (domain.ProxyAddressMap, error) {
	proxies := domain.ProxyAddressMap{}
	if _, err := readJSON(s.path, &proxies); err != nil {
		return nil, err
	}
	for contract, networks := range proxies {
		for id, rec := range networks {
			if addr := rec.Address(); addr != "" && !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("%w: %s on network %s: %q", domain.ErrInvalidAddress, contract, id, addr)
			}
		}
	}
	return proxies, nil
}

// PointerStoreAdapter persists the manifest pointer. Saves go to both the
// branch-scoped and the unscoped versions file; loads read the branch one.
type PointerStoreAdapter struct {
	branchPath string
	sharedPath string
}

// NewPointerStoreAdapter creates a new PointerStoreAdapter
func NewPointerStoreAdapter(cfg *config.RuntimeConfig) *PointerStoreAdapter {
	paths := cfg.Project.Paths
	return &PointerStoreAdapter{
		branchPath: cfg.BranchFile(paths.ProtocolSrcDir, paths.VersionsFile),
		sharedPath: filepath.Join(cfg.Path(paths.ProtocolSrcDir), domain.BranchScopedName(paths.VersionsFile, "")),
	}
}

// Load reads the pointers. A missing file means nothing was published yet.
func (s *PointerStoreAdapter) Load(_ context.Context) (domain.ManifestPointers, error) {
	pointers := domain.ManifestPointers{}
	if _, err := readJSON(s.branchPath, &pointers); err != nil {
		return nil, err
	}
	return pointers, nil
}

// Save writes the pointers to both versions files
func (s *PointerStoreAdapter) Save(_ context.Context, pointers domain.ManifestPointers) error {
	if err := writeJSON(s.branchPath, pointers, "    "); err != nil {
		return err
	}
	if s.sharedPath == s.branchPath {
		return nil
	}
	return writeJSON(s.sharedPath, pointers, "    ")
}

// ProgressStoreAdapter persists the last successful migration per network
type ProgressStoreAdapter struct {
	path string
}

// NewProgressStoreAdapter creates a new ProgressStoreAdapter
func NewProgressStoreAdapter(cfg *config.RuntimeConfig) *ProgressStoreAdapter {
	return &ProgressStoreAdapter{path: cfg.Path(cfg.Project.Paths.ProgressFile)}
}

// Load reads the progress. A missing file means no migration ran yet.
func (s *ProgressStoreAdapter) Load(_ context.Context) (domain.MigrationProgress, error) {
	progress := domain.MigrationProgress{}
	if _, err := readJSON(s.path, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// Save writes the progress
func (s *ProgressStoreAdapter) Save(_ context.Context, progress domain.MigrationProgress) error {
	return writeJSON(s.path, progress, "  ")
}

// SelectionReaderAdapter reads the manual deployment selection. The file may
// be JSON or YAML.
type SelectionReaderAdapter struct {
	path string
}

// NewSelectionReaderAdapter creates a new SelectionReaderAdapter
func NewSelectionReaderAdapter(cfg *config.RuntimeConfig) *SelectionReaderAdapter {
	return &SelectionReaderAdapter{path: cfg.Path(cfg.Project.Paths.SelectionFile)}
}

// Load reads the selection
func (s *SelectionReaderAdapter) Load(_ context.Context) (*domain.ChangeSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ConfigError{Key: "paths.selection_file", Reason: fmt.Sprintf("%s does not exist", s.path)}
		}
		return nil, fmt.Errorf("failed to read selection file: %w", err)
	}
	var selection domain.ChangeSet
	if err := yaml.Unmarshal(data, &selection); err != nil {
		return nil, fmt.Errorf("failed to parse selection file: %w", err)
	}
	return &selection, nil
}

// Ensure the stores implement their ports
var (
	_ usecase.WhitelistRepository    = (*WhitelistStoreAdapter)(nil)
	_ usecase.ProxyAddressRepository = (*ProxyStoreAdapter)(nil)
	_ usecase.ManifestPointerStore   = (*PointerStoreAdapter)(nil)
	_ usecase.MigrationProgressStore = (*ProgressStoreAdapter)(nil)
	_ usecase.SelectionReader        = (*SelectionReaderAdapter)(nil)
)
