package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// ArtifactRepositoryAdapter reads compiled artifacts from the build output
type ArtifactRepositoryAdapter struct {
	dir string
}

// NewArtifactRepositoryAdapter creates a new ArtifactRepositoryAdapter
func NewArtifactRepositoryAdapter(cfg *config.RuntimeConfig) *ArtifactRepositoryAdapter {
	return &ArtifactRepositoryAdapter{dir: cfg.Path(cfg.Project.Paths.ContractsDir)}
}

// Exists reports whether the artifact directory exists
func (r *ArtifactRepositoryAdapter) Exists() bool {
	info, err := os.Stat(r.dir)
	return err == nil && info.IsDir()
}

// Registry indexes every *.json artifact by file name. Artifacts are only
// read when loaded.
func (r *ArtifactRepositoryAdapter) Registry(_ context.Context) (*domain.ContractRegistry, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewContractRegistry(nil), nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	loaders := make(map[string]domain.ArtifactLoader, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(r.dir, entry.Name())
		loaders[name] = func() (*domain.Artifact, error) {
			return readArtifact(path, name)
		}
	}
	return domain.NewContractRegistry(loaders), nil
}

func readArtifact(path, name string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	var artifact domain.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, name, err)
	}
	if artifact.ContractName == "" {
		artifact.ContractName = name
	}
	if len(artifact.ABI) > 0 {
		if _, err := abi.JSON(bytes.NewReader(artifact.ABI)); err != nil {
			return nil, fmt.Errorf("%w: %s abi: %v", domain.ErrInvalidArtifact, name, err)
		}
	}
	return &artifact, nil
}

// Ensure ArtifactRepositoryAdapter implements ArtifactRepository
var _ usecase.ArtifactRepository = (*ArtifactRepositoryAdapter)(nil)
