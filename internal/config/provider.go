package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// ProjectFile marks the project root.
const ProjectFile = "keybuilder.toml"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ProjectFile, err)
	}

	branch := v.GetString("branch")
	if branch == "" {
		branch = headBranch(projectRoot)
	}

	return &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		Branch:          branch,
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		Timeout:         v.GetDuration("timeout"),
		ForceDeployment: v.GetBool("force_deployment"),
		Production:      v.GetString("node_env") == "production",
		ForcePublish:    v.GetBool("force_publish"),
		Project:         project,
	}, nil
}

// FindProjectRoot walks up from the current directory to find keybuilder.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a keybuilder project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("KEYBUILDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Environment names the deployment scripts have always used
	_ = v.BindEnv("force_deployment", "KEYBUILDER_FORCE_DEPLOYMENT", "FORCE_DEPLOYMENT")
	_ = v.BindEnv("node_env", "KEYBUILDER_NODE_ENV", "NODE_ENV")
	_ = v.BindEnv("force_publish", "KEYBUILDER_FORCE_PUBLISH", "FORCE_PUBLISH", "FORCE_NPM")

	v.SetDefault("timeout", 0)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// headBranch reads the checked out branch from .git/HEAD. A detached HEAD
// or a missing repository yields "".
func headBranch(projectRoot string) string {
	data, err := os.ReadFile(filepath.Join(projectRoot, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	ref := strings.TrimSpace(string(data))
	if !strings.HasPrefix(ref, "ref: refs/heads/") {
		return ""
	}
	return strings.TrimPrefix(ref, "ref: refs/heads/")
}
