package domain

import "strings"

// WorkTreeStatus is the working tree state reported by source control.
type WorkTreeStatus struct {
	Branch string
	Ahead  int
	Behind int
	Files  []string
}

// LocalChanges returns modified paths that don't match any generated prefix.
func (s WorkTreeStatus) LocalChanges(generated []string) []string {
	var out []string
	for _, f := range s.Files {
		isGenerated := false
		for _, g := range generated {
			if strings.Contains(f, g) {
				isGenerated = true
				break
			}
		}
		if !isGenerated {
			out = append(out, f)
		}
	}
	return out
}

// Submodule is one built bundle to publish to the content-addressed store.
type Submodule struct {
	Name string
	Data []byte
}
