package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/twokey/keybuilder/internal/domain"
)

// GenerateBundlesParams contains parameters for bundle generation
type GenerateBundlesParams struct {
	// CopyToDist also writes the deployed-contracts record to the dist directory
	CopyToDist bool
}

// GenerateBundlesResult contains the generated bundle set
type GenerateBundlesResult struct {
	// Skipped is set when there was no build output to generate from
	Skipped bool
	Set     *domain.BundleSet
}

// GenerateBundles merges compiled artifacts with the proxy overlay into per-module interface bundles
type GenerateBundles struct {
	artifacts ArtifactRepository
	whitelist WhitelistRepository
	proxies   ProxyAddressRepository
	bundles   BundleRepository
	log       *slog.Logger
}

// NewGenerateBundles creates a new GenerateBundles use case
func NewGenerateBundles(
	artifacts ArtifactRepository,
	whitelist WhitelistRepository,
	proxies ProxyAddressRepository,
	bundles BundleRepository,
	log *slog.Logger,
) *GenerateBundles {
	return &GenerateBundles{
		artifacts: artifacts,
		whitelist: whitelist,
		proxies:   proxies,
		bundles:   bundles,
		log:       log.With("component", "GenerateBundles"),
	}
}

// Run generates and persists the bundles
func (uc *GenerateBundles) Run(ctx context.Context, params GenerateBundlesParams) (*GenerateBundlesResult, error) {
	if !uc.artifacts.Exists() {
		uc.log.Info("no build output, nothing to generate")
		return &GenerateBundlesResult{Skipped: true}, nil
	}

	set, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.bundles.SaveBundles(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to write bundles: %w", err)
	}
	if err := uc.bundles.SaveDeployedRecord(ctx, set.Deployed, params.CopyToDist); err != nil {
		return nil, fmt.Errorf("failed to write deployed contracts record: %w", err)
	}

	uc.log.Info("generated bundles", "modules", len(set.Modules), "nonSingletonsHash", set.NonSingletonsHash)
	return &GenerateBundlesResult{Set: set}, nil
}

// Build computes the bundle set without persisting it.
func (uc *GenerateBundles) Build(ctx context.Context) (*domain.BundleSet, error) {
	whitelist, err := uc.whitelist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load whitelist: %w", err)
	}
	proxies, err := uc.proxies.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxy addresses: %w", err)
	}
	registry, err := uc.artifacts.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to index artifacts: %w", err)
	}

	set := &domain.BundleSet{
		Modules:  map[string]*domain.InterfaceBundle{},
		Deployed: domain.DeployedRecord{Networks: map[string][]domain.DeployedContract{}},
	}
	var singletonAddresses []string

	for _, name := range registry.Names() {
		entry, ok := whitelist[name]
		if !ok {
			continue
		}
		artifact, err := registry.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load artifact %s: %w", name, err)
		}

		merged := make(map[string]domain.NetworkRecord, len(artifact.Networks))
		for _, id := range artifact.NetworkIDs() {
			own := artifact.Networks[id]
			overlay, hasOverlay := proxies.ProxyEntry(name, id)
			merged[id] = own.Merge(overlay)
			if hasOverlay {
				addrs, err := proxyAddresses(name, id, overlay)
				if err != nil {
					return nil, err
				}
				singletonAddresses = append(singletonAddresses, addrs...)
			}
			set.Deployed.Networks[id] = append(set.Deployed.Networks[id], domain.DeployedContract{
				Contract: name,
				Address:  own.Address(),
			})
		}

		bundle, ok := set.Modules[entry.File]
		if !ok {
			bundle = domain.NewInterfaceBundle(entry.File)
			set.Modules[entry.File] = bundle
		}
		contract := domain.BundleContract{ABI: artifact.ABI, Name: name}
		if entry.Networks {
			contract.Networks = merged
		}
		if entry.Bytecode {
			contract.Bytecode = artifact.Bytecode
		}
		bundle.Contracts[name] = contract
	}

	nonSingletons, err := nonSingletonContent(set)
	if err != nil {
		return nil, err
	}
	set.NonSingletonsHash = domain.ContentHash(nonSingletons)
	set.SingletonsHash = domain.ContentHash(singletonAddresses)

	if _, ok := set.Modules[domain.SingletonsModule]; !ok {
		set.Modules[domain.SingletonsModule] = domain.NewInterfaceBundle(domain.SingletonsModule)
	}
	for _, bundle := range set.Modules {
		bundle.NonSingletonsHash = set.NonSingletonsHash
		bundle.SingletonsHash = set.SingletonsHash
	}
	set.Deployed.NonSingletonsHash = set.NonSingletonsHash
	set.Deployed.SingletonsHash = set.SingletonsHash

	return set, nil
}

// nonSingletonContent lists, module by module and contract by contract in
// sorted order, each contract's bytecode or its ABI when no bytecode is bundled.
func nonSingletonContent(set *domain.BundleSet) ([]string, error) {
	var parts []string
	for _, module := range set.ModuleNames() {
		if module == domain.SingletonsModule {
			continue
		}
		bundle := set.Modules[module]
		for _, name := range bundle.ContractNames() {
			c := bundle.Contracts[name]
			if c.Bytecode != "" {
				parts = append(parts, c.Bytecode)
				continue
			}
			abi, err := (&domain.Artifact{ContractName: name, ABI: c.ABI}).CompactABI()
			if err != nil {
				return nil, err
			}
			parts = append(parts, abi)
		}
	}
	return parts, nil
}

// proxyAddresses returns the proxy address and its paired storage address, if any.
func proxyAddresses(contract, networkID string, overlay domain.NetworkRecord) ([]string, error) {
	var out []string
	for _, key := range []string{"address", "implementationAddressStorage"} {
		addr, _ := overlay[key].(string)
		if addr == "" {
			continue
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("%w: %s.%s on network %s: %q", domain.ErrInvalidAddress, contract, key, networkID, addr)
		}
		out = append(out, addr)
	}
	return out, nil
}
