package domain

import (
	"path"
	"strings"

	"github.com/samber/lo"
)

// ContractGroup is a semantic bucket of contract sources.
type ContractGroup string

const (
	GroupSingletons   ContractGroup = "singletons"
	GroupTokenSell    ContractGroup = "tokenSell"
	GroupDonation     ContractGroup = "donation"
	GroupCPC          ContractGroup = "cpc"
	GroupCPCNoRewards ContractGroup = "cpcNoRewards"
)

// SourceExt is the extension of contract source files.
const SourceExt = ".sol"

// groupDirectories maps each group to the source directories feeding it.
// The mutual campaign directory feeds both token-sell and donation.
var groupDirectories = map[ContractGroup][]string{
	GroupSingletons:   {"/singleton-contracts/", "/token-pools"},
	GroupTokenSell:    {"/acquisition-campaign-contracts/", "/campaign-mutual-contracts/"},
	GroupDonation:     {"/campaign-mutual-contracts/", "/donation-campaign-contracts/"},
	GroupCPC:          {"/cpc-campaign-contracts/"},
	GroupCPCNoRewards: {"/cpc-campaign-no-rewards/"},
}

// ChangeSet records which contract groups changed since the last release of a track.
type ChangeSet struct {
	SingletonsChanged   []string `json:"singletons" yaml:"singletons"`
	TokenSellChanged    bool     `json:"tokenSell" yaml:"tokenSell"`
	DonationChanged     bool     `json:"donation" yaml:"donation"`
	CPCChanged          bool     `json:"cpc" yaml:"cpc"`
	CPCNoRewardsChanged bool     `json:"cpcNoRewards" yaml:"cpcNoRewards"`
}

// IsEmpty reports whether nothing needs redeploying.
func (c ChangeSet) IsEmpty() bool {
	return len(c.SingletonsChanged) == 0 && !c.TokenSellChanged && !c.DonationChanged &&
		!c.CPCChanged && !c.CPCNoRewardsChanged
}

// Groups returns the changed groups in deployment order.
func (c ChangeSet) Groups() []ContractGroup {
	var groups []ContractGroup
	if len(c.SingletonsChanged) > 0 {
		groups = append(groups, GroupSingletons)
	}
	if c.TokenSellChanged {
		groups = append(groups, GroupTokenSell)
	}
	if c.DonationChanged {
		groups = append(groups, GroupDonation)
	}
	if c.CPCChanged {
		groups = append(groups, GroupCPC)
	}
	if c.CPCNoRewardsChanged {
		groups = append(groups, GroupCPCNoRewards)
	}
	return groups
}

// WithSingletons returns a copy of the change set with the given singleton list.
func (c ChangeSet) WithSingletons(names []string) ChangeSet {
	c.SingletonsChanged = append([]string(nil), names...)
	return c
}

// ClassifyPath returns every group a changed source path belongs to.
func ClassifyPath(p string) []ContractGroup {
	var groups []ContractGroup
	for _, g := range []ContractGroup{GroupSingletons, GroupTokenSell, GroupDonation, GroupCPC, GroupCPCNoRewards} {
		if lo.SomeBy(groupDirectories[g], func(dir string) bool { return strings.Contains(p, dir) }) {
			groups = append(groups, g)
		}
	}
	return groups
}

// ContractNameFromPath reduces a source path to its bare contract name.
func ContractNameFromPath(p string) string {
	return strings.TrimSuffix(path.Base(p), SourceExt)
}

// BuildChangeSet buckets changed file paths into groups. Only contract sources
// are considered; singleton names keep diff order without duplicates.
func BuildChangeSet(paths []string) ChangeSet {
	var cs ChangeSet
	for _, p := range paths {
		if !strings.HasSuffix(p, SourceExt) {
			continue
		}
		for _, g := range ClassifyPath(p) {
			switch g {
			case GroupSingletons:
				name := ContractNameFromPath(p)
				if !lo.Contains(cs.SingletonsChanged, name) {
					cs.SingletonsChanged = append(cs.SingletonsChanged, name)
				}
			case GroupTokenSell:
				cs.TokenSellChanged = true
			case GroupDonation:
				cs.DonationChanged = true
			case GroupCPC:
				cs.CPCChanged = true
			case GroupCPCNoRewards:
				cs.CPCNoRewardsChanged = true
			}
		}
	}
	return cs
}
