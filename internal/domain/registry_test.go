package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractRegistry(t *testing.T) {
	calls := 0
	registry := NewContractRegistry(map[string]ArtifactLoader{
		"TwoKeyRegistry": func() (*Artifact, error) {
			calls++
			return &Artifact{ContractName: "TwoKeyRegistry"}, nil
		},
		"TwoKeyAdmin": func() (*Artifact, error) { return &Artifact{ContractName: "TwoKeyAdmin"}, nil },
	})

	assert.Equal(t, []string{"TwoKeyAdmin", "TwoKeyRegistry"}, registry.Names())
	assert.True(t, registry.Has("TwoKeyAdmin"))
	assert.Equal(t, 0, calls)

	a, err := registry.Load("TwoKeyRegistry")
	require.NoError(t, err)
	assert.Equal(t, "TwoKeyRegistry", a.ContractName)
	assert.Equal(t, 1, calls)
}

func TestContractRegistryUnknown(t *testing.T) {
	registry := NewContractRegistry(map[string]ArtifactLoader{
		"TwoKeyRegistry": func() (*Artifact, error) { return &Artifact{}, nil },
	})

	_, err := registry.Load("TwoKeyReg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var unknown UnknownContractError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"TwoKeyRegistry"}, unknown.Suggestions)
}

func TestArtifactHelpers(t *testing.T) {
	a := &Artifact{
		ContractName: "X",
		ABI:          []byte(`[ {"type": "function"} ]`),
		Networks: map[string]NetworkRecord{
			"180": {"address": "0x1"},
			"3":   {"address": "0x2"},
			"dev": {},
		},
	}
	assert.True(t, a.IsDeployed())
	assert.Equal(t, []string{"3", "180", "dev"}, a.NetworkIDs())

	abi, err := a.CompactABI()
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"function"}]`, abi)

	assert.False(t, (&Artifact{Networks: map[string]NetworkRecord{"3": {}}}).IsDeployed())
}

func TestNetworkRecordMerge(t *testing.T) {
	base := NetworkRecord{"address": "0xa", "transactionHash": "0xt"}
	merged := base.Merge(NetworkRecord{"address": "0xb"})
	assert.Equal(t, "0xb", merged.Address())
	assert.Equal(t, "0xt", merged["transactionHash"])
	assert.Equal(t, "0xa", base.Address())
}
