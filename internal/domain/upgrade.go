package domain

// NamedMigrations maps a migration kind to the runner's migration index.
type NamedMigrations map[string]int

// Index returns the migration index configured for kind.
func (m NamedMigrations) Index(kind MigrationKind) (int, bool) {
	i, ok := m[string(kind)]
	return i, ok
}

// UpgradeOptions tweaks which steps an upgrade plan contains.
type UpgradeOptions struct {
	// PaymentHandlers deploys the budget-campaign payment handlers first
	PaymentHandlers bool
}

// PlanUpgrade orders the migrations needed to roll out a change set. Per
// network the order is: payment handlers, singleton updates, token sell,
// donation, cpc, cpc without rewards. Singletons are gated on chain class and
// token-sell/donation campaigns only deploy to public networks.
func PlanUpgrade(cs ChangeSet, networks []Network, named NamedMigrations, opts UpgradeOptions) (MigrationPlan, error) {
	var plan MigrationPlan
	add := func(n Network, kind MigrationKind, contract string) error {
		idx, ok := named.Index(kind)
		if !ok {
			return ConfigError{Key: "runner.named_migrations." + string(kind), Reason: "no migration index configured"}
		}
		plan.Steps = append(plan.Steps, MigrationStep{
			Network:  n.Name,
			Kind:     kind,
			Index:    idx,
			Contract: contract,
			Status:   MigrationPending,
		})
		return nil
	}

	for _, n := range networks {
		if opts.PaymentHandlers {
			if err := add(n, MigrationPaymentHandlers, ""); err != nil {
				return MigrationPlan{}, err
			}
		}
		for _, contract := range cs.SingletonsChanged {
			if !n.EligibleForSingleton(contract) {
				continue
			}
			if err := add(n, MigrationUpdateSingleton, contract); err != nil {
				return MigrationPlan{}, err
			}
		}
		if cs.TokenSellChanged && n.IsPublic() {
			if err := add(n, MigrationTokenSell, ""); err != nil {
				return MigrationPlan{}, err
			}
		}
		if cs.DonationChanged && n.IsPublic() {
			if err := add(n, MigrationDonation, ""); err != nil {
				return MigrationPlan{}, err
			}
		}
		if cs.CPCChanged {
			if err := add(n, MigrationCPC, ""); err != nil {
				return MigrationPlan{}, err
			}
		}
		if cs.CPCNoRewardsChanged {
			if err := add(n, MigrationCPCNoRewards, ""); err != nil {
				return MigrationPlan{}, err
			}
		}
	}
	return plan, nil
}

// RunnerArgs returns the extra arguments passed to the runner for a step.
func (s MigrationStep) RunnerArgs() []string {
	if s.Kind == MigrationUpdateSingleton && s.Contract != "" {
		return []string{"update", s.Contract}
	}
	return nil
}
