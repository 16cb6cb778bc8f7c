package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twokey/keybuilder/internal/domain"
)

func TestBundleRepository(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := NewBundleRepositoryAdapter(cfg)

	registry := domain.BundleContract{
		ABI:      json.RawMessage(`[]`),
		Name:     "TwoKeyRegistry",
		Networks: map[string]domain.NetworkRecord{"3": {"address": "0x1111111111111111111111111111111111111111"}},
	}
	set := &domain.BundleSet{
		Modules: map[string]*domain.InterfaceBundle{
			"singletons": {
				Module:            "singletons",
				Contracts:         map[string]domain.BundleContract{"TwoKeyRegistry": registry},
				NonSingletonsHash: "aaa",
				SingletonsHash:    "bbb",
			},
			"donation": {
				Module:            "donation",
				Contracts:         map[string]domain.BundleContract{},
				NonSingletonsHash: "aaa",
				SingletonsHash:    "bbb",
			},
		},
		NonSingletonsHash: "aaa",
		SingletonsHash:    "bbb",
	}

	t.Run("bundles are default-exported modules", func(t *testing.T) {
		require.NoError(t, repo.SaveBundles(ctx, set))

		data, err := os.ReadFile(filepath.Join(cfg.Path(cfg.Project.Paths.BundlesDir), "singletons.ts"))
		require.NoError(t, err)
		text := string(data)
		require.True(t, strings.HasPrefix(text, "export default {"))

		var bundle domain.InterfaceBundle
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(text, "export default ")), &bundle))
		assert.Equal(t, "aaa", bundle.NonSingletonsHash)
		assert.Equal(t, "bbb", bundle.SingletonsHash)
		assert.Equal(t, registry.Name, bundle.Contracts["TwoKeyRegistry"].Name)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", bundle.Contracts["TwoKeyRegistry"].Networks["3"].Address())

		_, err = os.Stat(filepath.Join(cfg.Path(cfg.Project.Paths.BundlesDir), "donation.ts"))
		assert.NoError(t, err)
	})

	record := domain.DeployedRecord{
		NonSingletonsHash: "aaa",
		SingletonsHash:    "bbb",
		Networks: map[string][]domain.DeployedContract{
			"3": {{Contract: "TwoKeyRegistry", Address: "0x3333333333333333333333333333333333333333"}},
		},
	}
	srcPath := filepath.Join(cfg.Path(cfg.Project.Paths.ProtocolSrcDir), "contracts_deployed-develop.json")
	distPath := filepath.Join(cfg.Path(cfg.Project.Paths.ProtocolDistDir), "contracts_deployed-develop.json")

	t.Run("deployed record is flat", func(t *testing.T) {
		require.NoError(t, repo.SaveDeployedRecord(ctx, record, false))

		data, err := os.ReadFile(srcPath)
		require.NoError(t, err)
		var flat map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &flat))
		assert.JSONEq(t, `"aaa"`, string(flat[domain.NonSingletonsHashKey]))
		assert.JSONEq(t, `"bbb"`, string(flat[domain.SingletonsHashKey]))
		assert.JSONEq(t, `[{"contract":"TwoKeyRegistry","address":"0x3333333333333333333333333333333333333333"}]`, string(flat["3"]))

		_, err = os.Stat(distPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("copy to dist", func(t *testing.T) {
		require.NoError(t, repo.SaveDeployedRecord(ctx, record, true))

		src, err := os.ReadFile(srcPath)
		require.NoError(t, err)
		dist, err := os.ReadFile(distPath)
		require.NoError(t, err)
		assert.Equal(t, src, dist)
	})
}

func TestArtifactRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes json artifacts lazily", func(t *testing.T) {
		cfg := newTestConfig(t)
		dir := cfg.Path(cfg.Project.Paths.ContractsDir)
		writeTestFile(t, filepath.Join(dir, "TwoKeyRegistry.json"), `{
			"contractName": "TwoKeyRegistry",
			"abi": [{"type":"function","name":"getOwner","inputs":[],"outputs":[{"name":"","type":"address"}]}],
			"bytecode": "0x6080",
			"networks": {"3": {"address": "0x1111111111111111111111111111111111111111"}}
		}`)
		writeTestFile(t, filepath.Join(dir, "Broken.json"), `{"abi": "not-an-abi"}`)
		writeTestFile(t, filepath.Join(dir, "README.md"), "not an artifact")

		repo := NewArtifactRepositoryAdapter(cfg)
		assert.True(t, repo.Exists())

		registry, err := repo.Registry(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Broken", "TwoKeyRegistry"}, registry.Names())

		artifact, err := registry.Load("TwoKeyRegistry")
		require.NoError(t, err)
		assert.Equal(t, "0x6080", artifact.Bytecode)
		assert.True(t, artifact.IsDeployed())

		_, err = registry.Load("Broken")
		assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
	})

	t.Run("missing directory", func(t *testing.T) {
		repo := NewArtifactRepositoryAdapter(newTestConfig(t))
		assert.False(t, repo.Exists())

		registry, err := repo.Registry(ctx)
		require.NoError(t, err)
		assert.Empty(t, registry.Names())
	})
}
