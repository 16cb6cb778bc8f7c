package domain

import "strings"

// ChainClass separates public networks from private ("plasma") networks.
type ChainClass string

const (
	ChainClassPublic  ChainClass = "public"
	ChainClassPrivate ChainClass = "private"
	ChainClassOther   ChainClass = ""
)

// Network is a deployment target as known to the external migration runner.
type Network struct {
	Name      string     `json:"name"`
	NetworkID string     `json:"networkId,omitempty"`
	Class     ChainClass `json:"class,omitempty"`
}

// ClassifyNetwork derives the chain class from a network name.
func ClassifyNetwork(name string) ChainClass {
	switch {
	case strings.Contains(name, "private"), strings.Contains(name, "plasma"):
		return ChainClassPrivate
	case strings.Contains(name, "public"):
		return ChainClassPublic
	}
	return ChainClassOther
}

// ChainClass returns the explicit class if set, otherwise the class derived from the name.
func (n Network) ChainClass() ChainClass {
	if n.Class != ChainClassOther {
		return n.Class
	}
	return ClassifyNetwork(n.Name)
}

// IsPublic reports whether the network is a public-class target.
func (n Network) IsPublic() bool { return n.ChainClass() == ChainClassPublic }

// IsPrivate reports whether the network is a private/plasma-class target.
func (n Network) IsPrivate() bool { return n.ChainClass() == ChainClassPrivate }

// IsLocal reports whether the network is a local development chain.
func (n Network) IsLocal() bool { return strings.Contains(n.Name, "local") }

// IsPlasmaContract reports whether a singleton is tagged for private/plasma chains.
func IsPlasmaContract(name string) bool {
	return strings.Contains(name, "Plasma")
}

// EligibleForSingleton reports whether a changed singleton may be deployed on the network.
func (n Network) EligibleForSingleton(contract string) bool {
	if IsPlasmaContract(contract) {
		return n.IsPrivate()
	}
	return n.IsPublic()
}
