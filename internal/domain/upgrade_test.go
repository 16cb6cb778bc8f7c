package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNamed = NamedMigrations{
	"update_singleton": 3,
	"token_sell":       4,
	"donation":         5,
	"cpc":              6,
	"cpc_no_rewards":   7,
	"payment_handlers": 8,
}

func TestPlanUpgradeScenario(t *testing.T) {
	cs := ChangeSet{SingletonsChanged: []string{"TwoKeyRegistry"}, TokenSellChanged: true}

	plan, err := PlanUpgrade(cs, []Network{{Name: "public-ropsten"}}, testNamed, UpgradeOptions{})
	require.NoError(t, err)

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, MigrationUpdateSingleton, plan.Steps[0].Kind)
	assert.Equal(t, "TwoKeyRegistry", plan.Steps[0].Contract)
	assert.Equal(t, []string{"update", "TwoKeyRegistry"}, plan.Steps[0].RunnerArgs())
	assert.Equal(t, MigrationTokenSell, plan.Steps[1].Kind)
	assert.Nil(t, plan.Steps[1].RunnerArgs())
}

func TestPlanUpgradeOrderingAndGating(t *testing.T) {
	cs := ChangeSet{
		SingletonsChanged:   []string{"TwoKeyRegistry", "TwoKeyPlasmaEvents"},
		TokenSellChanged:    true,
		DonationChanged:     true,
		CPCChanged:          true,
		CPCNoRewardsChanged: true,
	}
	networks := []Network{{Name: "public.test.k8s"}, {Name: "private.test.k8s"}}

	plan, err := PlanUpgrade(cs, networks, testNamed, UpgradeOptions{PaymentHandlers: true})
	require.NoError(t, err)

	var got []string
	for _, s := range plan.Steps {
		got = append(got, s.String())
		assert.Equal(t, MigrationPending, s.Status)
	}
	assert.Equal(t, []string{
		"public.test.k8s:payment_handlers",
		"public.test.k8s:update_singleton(TwoKeyRegistry)",
		"public.test.k8s:token_sell",
		"public.test.k8s:donation",
		"public.test.k8s:cpc",
		"public.test.k8s:cpc_no_rewards",
		"private.test.k8s:payment_handlers",
		"private.test.k8s:update_singleton(TwoKeyPlasmaEvents)",
		"private.test.k8s:cpc",
		"private.test.k8s:cpc_no_rewards",
	}, got)
}

func TestPlanUpgradeEmpty(t *testing.T) {
	plan, err := PlanUpgrade(ChangeSet{}, []Network{{Name: "public.test.k8s"}}, testNamed, UpgradeOptions{})
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
}

func TestPlanUpgradeMissingIndex(t *testing.T) {
	_, err := PlanUpgrade(ChangeSet{CPCChanged: true}, []Network{{Name: "public.test.k8s"}}, NamedMigrations{}, UpgradeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "runner.named_migrations.cpc")
}
