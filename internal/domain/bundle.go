package domain

import (
	"encoding/json"
	"sort"
)

// SingletonsModule is the bundle key holding infrastructure contracts.
const SingletonsModule = "singletons"

// Keys injected into every bundle.
const (
	NonSingletonsHashKey = "NonSingletonsHash"
	SingletonsHashKey    = "SingletonsHash"
)

// WhitelistEntry routes a contract into a bundle module.
type WhitelistEntry struct {
	File      string `json:"file"`
	Singleton bool   `json:"singleton"`
	Networks  bool   `json:"networks"`
	Bytecode  bool   `json:"bytecode"`
}

// Whitelist maps contract names to their bundle routing.
type Whitelist map[string]WhitelistEntry

// ProxyAddressMap is contract name -> network id -> proxy record.
type ProxyAddressMap map[string]map[string]NetworkRecord

// ProxyEntry returns the overlay record for a contract on a network, if any.
func (m ProxyAddressMap) ProxyEntry(contract, networkID string) (NetworkRecord, bool) {
	nets, ok := m[contract]
	if !ok {
		return nil, false
	}
	rec, ok := nets[networkID]
	return rec, ok && rec != nil
}

// BundleContract is one contract entry inside an interface bundle.
type BundleContract struct {
	ABI      json.RawMessage          `json:"abi"`
	Name     string                   `json:"name"`
	Bytecode string                   `json:"bytecode,omitempty"`
	Networks map[string]NetworkRecord `json:"networks,omitempty"`
}

// InterfaceBundle is a per-module bundle of contracts plus the build hashes.
type InterfaceBundle struct {
	Module            string
	Contracts         map[string]BundleContract
	NonSingletonsHash string
	SingletonsHash    string
}

// NewInterfaceBundle creates an empty bundle for module.
func NewInterfaceBundle(module string) *InterfaceBundle {
	return &InterfaceBundle{Module: module, Contracts: map[string]BundleContract{}}
}

// ContractNames returns contract names in sorted order.
func (b *InterfaceBundle) ContractNames() []string {
	names := make([]string, 0, len(b.Contracts))
	for name := range b.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON flattens the bundle into one object: the two hashes plus one key per contract.
func (b *InterfaceBundle) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Contracts)+2)
	for name, c := range b.Contracts {
		out[name] = c
	}
	out[NonSingletonsHashKey] = b.NonSingletonsHash
	out[SingletonsHashKey] = b.SingletonsHash
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (b *InterfaceBundle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Contracts = map[string]BundleContract{}
	for key, val := range raw {
		switch key {
		case NonSingletonsHashKey:
			if err := json.Unmarshal(val, &b.NonSingletonsHash); err != nil {
				return err
			}
		case SingletonsHashKey:
			if err := json.Unmarshal(val, &b.SingletonsHash); err != nil {
				return err
			}
		default:
			var c BundleContract
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			b.Contracts[key] = c
		}
	}
	return nil
}

// BundleSet is the full output of one generation run.
type BundleSet struct {
	Modules           map[string]*InterfaceBundle
	NonSingletonsHash string
	SingletonsHash    string
	Deployed          DeployedRecord
}

// ModuleNames returns module keys in sorted order.
func (s *BundleSet) ModuleNames() []string {
	names := make([]string, 0, len(s.Modules))
	for name := range s.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeployedContract is one address entry in the deployed-contracts record.
type DeployedContract struct {
	Contract string `json:"contract"`
	Address  string `json:"address"`
}

// DeployedRecord is network id -> deployed contracts, stamped with the build hashes.
type DeployedRecord struct {
	NonSingletonsHash string                        `json:"NonSingletonsHash"`
	SingletonsHash    string                        `json:"SingletonsHash"`
	Networks          map[string][]DeployedContract `json:"networks"`
}
