package domain

import (
	"encoding/json"
	"fmt"
	"maps"
)

// DefaultManifestName is the key under which the manifest pointer is persisted.
const DefaultManifestName = "TwoKeyVersionHandler"

// VersionManifest maps a build hash to submodule name -> published content pointer.
// History is append-only: merging one hash never touches another hash's entry.
type VersionManifest map[string]map[string]string

// ParseVersionManifest decodes a published manifest.
func ParseVersionManifest(data []byte) (VersionManifest, error) {
	m := VersionManifest{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse version manifest: %w", err)
	}
	return m, nil
}

// Clone returns a deep copy of the manifest.
func (m VersionManifest) Clone() VersionManifest {
	out := make(VersionManifest, len(m))
	for hash, entries := range m {
		out[hash] = maps.Clone(entries)
	}
	return out
}

// WithEntries returns a copy of m where hash gains (or overwrites) the given
// submodule pointers. Every other hash's entry is carried over unchanged.
func (m VersionManifest) WithEntries(hash string, entries map[string]string) VersionManifest {
	out := m.Clone()
	current := out[hash]
	if current == nil {
		current = map[string]string{}
	}
	maps.Copy(current, entries)
	out[hash] = current
	return out
}

// Bytes returns the canonical encoding used for publishing. Map keys are
// emitted in sorted order, so equal manifests produce equal bytes.
func (m VersionManifest) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ManifestPointers is the persisted "latest manifest" reference file.
type ManifestPointers map[string]string
