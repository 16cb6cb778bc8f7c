package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionManifestWithEntries(t *testing.T) {
	m := VersionManifest{
		"hash1": {"acquisition": "ptrA1"},
	}

	next := m.WithEntries("hash2", map[string]string{"acquisition": "ptrA2", "donation": "ptrD2"})

	// The previous entry survives untouched and the receiver is not mutated.
	assert.Equal(t, map[string]string{"acquisition": "ptrA1"}, next["hash1"])
	assert.Equal(t, map[string]string{"acquisition": "ptrA2", "donation": "ptrD2"}, next["hash2"])
	assert.Len(t, m, 1)
}

func TestVersionManifestSameHashMerges(t *testing.T) {
	m := VersionManifest{"hash1": {"acquisition": "old", "donation": "keep"}}
	next := m.WithEntries("hash1", map[string]string{"acquisition": "new"})

	assert.Equal(t, map[string]string{"acquisition": "new", "donation": "keep"}, next["hash1"])
	assert.Equal(t, "old", m["hash1"]["acquisition"])
}

func TestVersionManifestBytesDeterministic(t *testing.T) {
	a := VersionManifest{"h2": {"b": "2", "a": "1"}, "h1": {"c": "3"}}
	b := VersionManifest{"h1": {"c": "3"}, "h2": {"a": "1", "b": "2"}}

	ba, err := a.Bytes()
	require.NoError(t, err)
	bb, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, ba, bb)

	parsed, err := ParseVersionManifest(ba)
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseVersionManifestEmpty(t *testing.T) {
	m, err := ParseVersionManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = ParseVersionManifest([]byte("{"))
	assert.Error(t, err)
}
