package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strconv"
)

// NetworkRecord is a per-network deployment record. Fields beyond the
// address are preserved as-is since producers add their own keys.
type NetworkRecord map[string]any

// Address returns the record's "address" field, or "" when absent.
func (r NetworkRecord) Address() string {
	s, _ := r["address"].(string)
	return s
}

// Merge overlays other onto a copy of r; keys in other win.
func (r NetworkRecord) Merge(other NetworkRecord) NetworkRecord {
	out := make(NetworkRecord, len(r)+len(other))
	maps.Copy(out, r)
	maps.Copy(out, other)
	return out
}

// Artifact is a compiled contract as written by the external compiler.
type Artifact struct {
	ContractName string                   `json:"contractName"`
	ABI          json.RawMessage          `json:"abi"`
	Bytecode     string                   `json:"bytecode,omitempty"`
	Networks     map[string]NetworkRecord `json:"networks"`
}

// IsDeployed reports whether the artifact carries at least one non-empty network record.
func (a *Artifact) IsDeployed() bool {
	for _, rec := range a.Networks {
		if len(rec) > 0 {
			return true
		}
	}
	return false
}

// NetworkIDs returns the artifact's network ids in ascending numeric order.
func (a *Artifact) NetworkIDs() []string {
	return SortedNetworkIDs(a.Networks)
}

// CompactABI returns the ABI serialised without insignificant whitespace.
func (a *Artifact) CompactABI() (string, error) {
	if len(a.ABI) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, a.ABI); err != nil {
		return "", fmt.Errorf("%w: %s abi: %v", ErrInvalidArtifact, a.ContractName, err)
	}
	return buf.String(), nil
}

// SortedNetworkIDs orders network ids numerically, non-numeric ids last in lexical order.
func SortedNetworkIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, errI := strconv.ParseUint(ids[i], 10, 64)
		nj, errJ := strconv.ParseUint(ids[j], 10, 64)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}
