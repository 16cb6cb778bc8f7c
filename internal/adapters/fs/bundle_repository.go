package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// BundleExt is the extension of generated bundle modules.
const BundleExt = ".ts"

// BundleRepositoryAdapter writes the interface bundles and the deployed-contracts record
type BundleRepositoryAdapter struct {
	bundlesDir   string
	deployedPath string
	distPath     string
}

// NewBundleRepositoryAdapter creates a new BundleRepositoryAdapter
func NewBundleRepositoryAdapter(cfg *config.RuntimeConfig) *BundleRepositoryAdapter {
	paths := cfg.Project.Paths
	return &BundleRepositoryAdapter{
		bundlesDir:   cfg.Path(paths.BundlesDir),
		deployedPath: cfg.BranchFile(paths.ProtocolSrcDir, paths.DeployedFile),
		distPath:     cfg.BranchFile(paths.ProtocolDistDir, paths.DeployedFile),
	}
}

// SaveBundles writes one module per bundle as a default-exported object literal
func (r *BundleRepositoryAdapter) SaveBundles(_ context.Context, set *domain.BundleSet) error {
	for _, module := range set.ModuleNames() {
		data, err := json.MarshalIndent(set.Modules[module], "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal bundle %s: %w", module, err)
		}
		out := append([]byte("export default "), data...)
		out = append(out, '\n')
		if err := writeFile(filepath.Join(r.bundlesDir, module+BundleExt), out); err != nil {
			return err
		}
	}
	return nil
}

// SaveDeployedRecord writes the record with the hashes and network ids as top-level keys
func (r *BundleRepositoryAdapter) SaveDeployedRecord(_ context.Context, record domain.DeployedRecord, copyToDist bool) error {
	flat := make(map[string]any, len(record.Networks)+2)
	for id, contracts := range record.Networks {
		flat[id] = contracts
	}
	flat[domain.NonSingletonsHashKey] = record.NonSingletonsHash
	flat[domain.SingletonsHashKey] = record.SingletonsHash

	if err := writeJSON(r.deployedPath, flat, "  "); err != nil {
		return err
	}
	if !copyToDist {
		return nil
	}
	return writeJSON(r.distPath, flat, "  ")
}

// Ensure BundleRepositoryAdapter implements BundleRepository
var _ usecase.BundleRepository = (*BundleRepositoryAdapter)(nil)
