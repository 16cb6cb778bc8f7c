package domain

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// ArtifactLoader reads one compiled artifact on demand.
type ArtifactLoader func() (*Artifact, error)

// ContractRegistry maps contract names to artifact loaders. It is built once
// from a directory listing and never consulted for names it wasn't given.
type ContractRegistry struct {
	loaders map[string]ArtifactLoader
	names   []string
}

// NewContractRegistry creates a registry from name/loader pairs.
func NewContractRegistry(loaders map[string]ArtifactLoader) *ContractRegistry {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return &ContractRegistry{loaders: loaders, names: names}
}

// Names returns registered contract names in sorted order.
func (r *ContractRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// Has reports whether a loader exists for name.
func (r *ContractRegistry) Has(name string) bool {
	_, ok := r.loaders[name]
	return ok
}

// Load reads the artifact registered under name.
func (r *ContractRegistry) Load(name string) (*Artifact, error) {
	loader, ok := r.loaders[name]
	if !ok {
		return nil, UnknownContractError{Name: name, Suggestions: r.suggest(name)}
	}
	return loader()
}

func (r *ContractRegistry) suggest(name string) []string {
	matches := fuzzy.Find(name, r.names)
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
