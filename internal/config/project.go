package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// loadProjectConfig loads .env files and decodes keybuilder.toml over the defaults
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	cfg := config.DefaultProjectConfig()
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Decoding into the defaults keeps every key the file leaves out
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, domain.ConfigError{Key: strings.Join(keys, ", "), Reason: "unknown keys"}
	}

	cfg.Publish.IPFSBin = os.ExpandEnv(cfg.Publish.IPFSBin)
	cfg.Runner.Bin = os.ExpandEnv(cfg.Runner.Bin)
	for name, n := range cfg.Networks {
		n.NetworkID = os.ExpandEnv(n.NetworkID)
		cfg.Networks[name] = n
	}

	return cfg, validateProjectConfig(cfg)
}

func validateProjectConfig(cfg *config.ProjectConfig) error {
	if cfg.Runner.Bin == "" {
		return domain.ConfigError{Key: "runner.bin", Reason: "empty"}
	}
	for name, n := range cfg.Networks {
		switch domain.ChainClass(n.Class) {
		case domain.ChainClassPublic, domain.ChainClassPrivate, domain.ChainClassOther:
		default:
			return domain.ConfigError{Key: "networks." + name + ".class", Reason: fmt.Sprintf("unknown chain class %q", n.Class)}
		}
	}
	switch cfg.Publish.Backend {
	case config.BackendLocalFS, config.BackendIPFS:
	default:
		return domain.ConfigError{Key: "publish.backend", Reason: fmt.Sprintf("unknown backend %q", cfg.Publish.Backend)}
	}
	return nil
}
