package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// MigrationCatalogAdapter counts the migration scripts
type MigrationCatalogAdapter struct {
	dir string
}

// NewMigrationCatalogAdapter creates a new MigrationCatalogAdapter
func NewMigrationCatalogAdapter(cfg *config.RuntimeConfig) *MigrationCatalogAdapter {
	return &MigrationCatalogAdapter{dir: cfg.Path(cfg.Project.Paths.MigrationsDir)}
}

// Count returns the number of files in the migrations directory
func (c *MigrationCatalogAdapter) Count(_ context.Context) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}

// SubmoduleRepositoryAdapter lists the built submodule bundles
type SubmoduleRepositoryAdapter struct {
	dir string
	ext string
}

// NewSubmoduleRepositoryAdapter creates a new SubmoduleRepositoryAdapter
func NewSubmoduleRepositoryAdapter(cfg *config.RuntimeConfig) *SubmoduleRepositoryAdapter {
	return &SubmoduleRepositoryAdapter{
		dir: cfg.Path(cfg.Project.Paths.SubmodulesDir),
		ext: cfg.Project.Publish.SubmoduleExt,
	}
}

// List reads every submodule in name order
func (r *SubmoduleRepositoryAdapter) List(_ context.Context) ([]domain.Submodule, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list submodules: %w", err)
	}
	var out []domain.Submodule
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), r.ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read submodule %s: %w", e.Name(), err)
		}
		out = append(out, domain.Submodule{Name: strings.TrimSuffix(e.Name(), r.ext), Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var versionField = regexp.MustCompile(`("version"\s*:\s*")([^"]*)(")`)

// PackageVersionAdapter reads and writes the protocol package version in place
type PackageVersionAdapter struct {
	path string
}

// NewPackageVersionAdapter creates a new PackageVersionAdapter
func NewPackageVersionAdapter(cfg *config.RuntimeConfig) *PackageVersionAdapter {
	return &PackageVersionAdapter{path: cfg.Path(cfg.Project.Paths.PackageFile)}
}

// Version returns the package version
func (p *PackageVersionAdapter) Version(_ context.Context) (string, error) {
	var pkg struct {
		Version string `json:"version"`
	}
	found, err := readJSON(p.path, &pkg)
	if err != nil {
		return "", err
	}
	if !found || pkg.Version == "" {
		return "", domain.ConfigError{Key: "paths.package_file", Reason: fmt.Sprintf("no version in %s", p.path)}
	}
	return pkg.Version, nil
}

// SetVersion rewrites the first version field, leaving the rest of the file untouched
func (p *PackageVersionAdapter) SetVersion(_ context.Context, version string) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read package file: %w", err)
	}
	loc := versionField.FindSubmatchIndex(data)
	if loc == nil {
		return domain.ConfigError{Key: "paths.package_file", Reason: fmt.Sprintf("no version in %s", p.path)}
	}
	var out []byte
	out = append(out, data[:loc[4]]...)
	out = append(out, version...)
	out = append(out, data[loc[5]:]...)
	if !json.Valid(out) {
		return fmt.Errorf("refusing to write invalid package file %s", p.path)
	}
	return writeFile(p.path, out)
}

// Ensure the adapters implement their ports
var (
	_ usecase.MigrationCatalog    = (*MigrationCatalogAdapter)(nil)
	_ usecase.SubmoduleRepository = (*SubmoduleRepositoryAdapter)(nil)
	_ usecase.PackageVersionStore = (*PackageVersionAdapter)(nil)
)
