package cas

import (
	"fmt"
	"log/slog"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// NewContentStore selects the configured backend. A forced deployment always
// publishes through ipfs.
func NewContentStore(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.ContentStore, error) {
	publish := cfg.Project.Publish
	backend := publish.Backend
	if cfg.ForceDeployment {
		backend = config.BackendIPFS
	}
	switch backend {
	case config.BackendLocalFS, "":
		return NewLocalFSAdapter(cfg.Path(cfg.Project.Paths.ContentStoreDir), log), nil
	case config.BackendIPFS:
		return NewIPFSAdapter(publish.IPFSBin, log), nil
	}
	return nil, domain.ConfigError{Key: "publish.backend", Reason: fmt.Sprintf("unknown backend %q", backend)}
}
