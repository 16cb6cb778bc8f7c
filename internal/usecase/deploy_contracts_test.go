package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	networks := []domain.Network{{Name: "public.test.k8s"}, {Name: "private.test.k8s"}}

	t.Run("resumes each network after its last recorded migration", func(t *testing.T) {
		runner := &fakeRunner{}
		store := &fakeProgress{progress: domain.MigrationProgress{"public.test.k8s": 2, "private.test.k8s": 4}}
		snapshot := &fakeSnapshot{}

		uc := usecase.NewRunMigrations(runner, fakeCatalog(4), store, snapshot, nil, discardLogger())
		result, err := uc.Run(ctx, usecase.RunMigrationsParams{Networks: networks, UpdateArchive: true})
		require.NoError(t, err)

		assert.Equal(t, []runCall{
			{Network: "public.test.k8s", Index: 3},
			{Network: "public.test.k8s", Index: 4},
		}, runner.calls)
		assert.Equal(t, domain.MigrationProgress{"public.test.k8s": 4, "private.test.k8s": 4}, store.progress)
		assert.Len(t, result.Plan.Succeeded(), 2)
		assert.Equal(t, 2, snapshot.archives)
	})

	t.Run("reset starts every network from the first migration", func(t *testing.T) {
		runner := &fakeRunner{}
		store := &fakeProgress{progress: domain.MigrationProgress{"public.test.k8s": 3}}

		uc := usecase.NewRunMigrations(runner, fakeCatalog(3), store, &fakeSnapshot{}, nil, discardLogger())
		_, err := uc.Run(ctx, usecase.RunMigrationsParams{Networks: networks[:1], Reset: true})
		require.NoError(t, err)

		assert.Equal(t, []runCall{
			{Network: "public.test.k8s", Index: 1},
			{Network: "public.test.k8s", Index: 2},
			{Network: "public.test.k8s", Index: 3},
		}, runner.calls)
	})

	t.Run("a failure halts every remaining network", func(t *testing.T) {
		runner := &fakeRunner{failOn: &runCall{Network: "public.test.k8s", Index: 2}}
		store := &fakeProgress{}
		snapshot := &fakeSnapshot{}

		uc := usecase.NewRunMigrations(runner, fakeCatalog(3), store, snapshot, nil, discardLogger())
		result, err := uc.Run(ctx, usecase.RunMigrationsParams{Networks: networks, UpdateArchive: true})
		require.Error(t, err)

		assert.ErrorIs(t, err, domain.ErrMigrationFailed)
		var migErr *domain.MigrationError
		require.True(t, errors.As(err, &migErr))
		assert.Equal(t, "public.test.k8s", migErr.Network)
		assert.Equal(t, 2, migErr.Index)

		assert.Equal(t, []runCall{
			{Network: "public.test.k8s", Index: 1},
			{Network: "public.test.k8s", Index: 2},
		}, runner.calls)
		assert.Equal(t, domain.MigrationProgress{"public.test.k8s": 1}, store.progress)
		assert.Equal(t, 1, snapshot.archives)

		failed, ok := result.Plan.Failed()
		require.True(t, ok)
		assert.Equal(t, 2, failed.Index)
		assert.Equal(t, "exit status 1", failed.Error)
	})

	t.Run("networks are required", func(t *testing.T) {
		uc := usecase.NewRunMigrations(&fakeRunner{}, fakeCatalog(1), &fakeProgress{}, &fakeSnapshot{}, nil, discardLogger())
		_, err := uc.Run(ctx, usecase.RunMigrationsParams{})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func newUpgrade(t *testing.T, runner *fakeRunner, analyzer *fakeAnalyzer, selection fakeSelection, snapshot *fakeSnapshot) *usecase.UpgradeContracts {
	t.Helper()
	cfg := testConfig(t.TempDir())
	whitelist := fakeWhitelist{
		"TwoKeyRegistry":     {File: "singletons", Singleton: true},
		"TwoKeyPlasmaEvents": {File: "singletons", Singleton: true},
	}
	return usecase.NewUpgradeContracts(cfg, runner, analyzer, selection, whitelist, snapshot, nil, discardLogger())
}

func TestUpgradeContracts(t *testing.T) {
	ctx := context.Background()
	named := testConfig("").Project.Runner.NamedMigrations

	t.Run("registry update runs before the token sell campaign", func(t *testing.T) {
		runner := &fakeRunner{}
		analyzer := &fakeAnalyzer{runner: runner, changeSet: domain.ChangeSet{
			SingletonsChanged: []string{"TwoKeyRegistry"},
			TokenSellChanged:  true,
		}}
		snapshot := &fakeSnapshot{}

		uc := newUpgrade(t, runner, analyzer, fakeSelection{}, snapshot)
		result, err := uc.Run(ctx, usecase.UpgradeContractsParams{
			Networks: []domain.Network{{Name: "public-ropsten"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, runner.compiled)
		assert.Equal(t, 1, analyzer.calls)
		// the analyzer restores the archived build, so compile output must come after it
		assert.Zero(t, analyzer.compiledAtAnalysis)
		assert.Equal(t, []runCall{
			{Network: "public-ropsten", Index: named["update_singleton"], Extra: []string{"update", "TwoKeyRegistry"}},
			{Network: "public-ropsten", Index: named["token_sell"]},
		}, runner.calls)
		assert.Len(t, result.Plan.Succeeded(), 2)
		assert.Equal(t, 1, snapshot.archives)
	})

	t.Run("singletons are gated on chain class", func(t *testing.T) {
		runner := &fakeRunner{}
		cs := domain.ChangeSet{SingletonsChanged: []string{"TwoKeyPlasmaEvents", "TwoKeyRegistry"}}

		uc := newUpgrade(t, runner, &fakeAnalyzer{}, fakeSelection{}, &fakeSnapshot{})
		_, err := uc.Run(ctx, usecase.UpgradeContractsParams{
			Networks:    []domain.Network{{Name: "public-x"}, {Name: "private-y"}},
			ChangeSet:   &cs,
			SkipCompile: true,
		})
		require.NoError(t, err)

		assert.Equal(t, []runCall{
			{Network: "public-x", Index: named["update_singleton"], Extra: []string{"update", "TwoKeyRegistry"}},
			{Network: "private-y", Index: named["update_singleton"], Extra: []string{"update", "TwoKeyPlasmaEvents"}},
		}, runner.calls)
	})

	t.Run("selection file replaces the diff", func(t *testing.T) {
		runner := &fakeRunner{}
		analyzer := &fakeAnalyzer{}
		selection := fakeSelection{selection: &domain.ChangeSet{CPCChanged: true}}

		uc := newUpgrade(t, runner, analyzer, selection, &fakeSnapshot{})
		result, err := uc.Run(ctx, usecase.UpgradeContractsParams{
			Networks:        []domain.Network{{Name: "private.test.k8s"}},
			FromFile:        true,
			PaymentHandlers: true,
			SkipCompile:     true,
		})
		require.NoError(t, err)

		assert.Zero(t, analyzer.calls)
		assert.True(t, result.ChangeSet.CPCChanged)
		assert.Equal(t, []runCall{
			{Network: "private.test.k8s", Index: named["payment_handlers"]},
			{Network: "private.test.k8s", Index: named["cpc"]},
		}, runner.calls)
	})

	t.Run("selection with an unknown singleton is rejected before deploying", func(t *testing.T) {
		runner := &fakeRunner{}
		selection := fakeSelection{selection: &domain.ChangeSet{SingletonsChanged: []string{"TwoKeyRegistry", "TwoKeyTypo"}}}

		uc := newUpgrade(t, runner, &fakeAnalyzer{}, selection, &fakeSnapshot{})
		_, err := uc.Run(ctx, usecase.UpgradeContractsParams{
			Networks:    []domain.Network{{Name: "public.test.k8s"}},
			FromFile:    true,
			SkipCompile: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "TwoKeyTypo")
		assert.Empty(t, runner.calls)
	})

	t.Run("failed step stops the plan without archiving", func(t *testing.T) {
		runner := &fakeRunner{failOn: &runCall{Network: "public.test.k8s", Index: named["token_sell"]}}
		cs := domain.ChangeSet{TokenSellChanged: true, DonationChanged: true}
		snapshot := &fakeSnapshot{}

		uc := newUpgrade(t, runner, &fakeAnalyzer{}, fakeSelection{}, snapshot)
		result, err := uc.Run(ctx, usecase.UpgradeContractsParams{
			Networks:    []domain.Network{{Name: "public.test.k8s"}},
			ChangeSet:   &cs,
			SkipCompile: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMigrationFailed)
		assert.Len(t, runner.calls, 1)
		assert.Zero(t, snapshot.archives)

		require.Len(t, result.Plan.Steps, 2)
		assert.Equal(t, domain.MigrationFailed, result.Plan.Steps[0].Status)
		assert.Equal(t, domain.MigrationPending, result.Plan.Steps[1].Status)
	})

	t.Run("nothing changed runs nothing", func(t *testing.T) {
		runner := &fakeRunner{}
		snapshot := &fakeSnapshot{}

		uc := newUpgrade(t, runner, &fakeAnalyzer{}, fakeSelection{}, snapshot)
		result, err := uc.Run(ctx, usecase.UpgradeContractsParams{Networks: []domain.Network{{Name: "public.test.k8s"}}})
		require.NoError(t, err)

		assert.Empty(t, result.Plan.Steps)
		assert.Empty(t, runner.calls)
		assert.Zero(t, snapshot.archives)
	})
}
