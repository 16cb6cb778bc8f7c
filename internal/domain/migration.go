package domain

import "fmt"

// MigrationStatus is the state of one (network, migration) pair.
type MigrationStatus string

const (
	MigrationPending   MigrationStatus = "pending"
	MigrationRunning   MigrationStatus = "running"
	MigrationSucceeded MigrationStatus = "succeeded"
	MigrationFailed    MigrationStatus = "failed"
)

// MigrationKind names what a migration step deploys.
type MigrationKind string

const (
	// MigrationNumbered is a plain indexed migration from the migrations directory.
	MigrationNumbered        MigrationKind = "numbered"
	MigrationUpdateSingleton MigrationKind = "update_singleton"
	MigrationTokenSell       MigrationKind = "token_sell"
	MigrationDonation        MigrationKind = "donation"
	MigrationCPC             MigrationKind = "cpc"
	MigrationCPCNoRewards    MigrationKind = "cpc_no_rewards"
	MigrationPaymentHandlers MigrationKind = "payment_handlers"
)

// MigrationStep is one unit of work for the external migration runner.
type MigrationStep struct {
	Network  string          `json:"network"`
	Kind     MigrationKind   `json:"kind"`
	Index    int             `json:"index"`
	Contract string          `json:"contract,omitempty"`
	Status   MigrationStatus `json:"status"`
	Error    string          `json:"error,omitempty"`
}

// String renders the step for logs and tables.
func (s MigrationStep) String() string {
	switch {
	case s.Kind == MigrationNumbered:
		return fmt.Sprintf("%s#%d", s.Network, s.Index)
	case s.Contract != "":
		return fmt.Sprintf("%s:%s(%s)", s.Network, s.Kind, s.Contract)
	}
	return fmt.Sprintf("%s:%s", s.Network, s.Kind)
}

// MigrationPlan is an ordered list of steps; execution stops at the first failure.
type MigrationPlan struct {
	Steps []MigrationStep `json:"steps"`
}

// Succeeded returns the steps that completed.
func (p MigrationPlan) Succeeded() []MigrationStep {
	var out []MigrationStep
	for _, s := range p.Steps {
		if s.Status == MigrationSucceeded {
			out = append(out, s)
		}
	}
	return out
}

// Failed returns the failed step, if any.
func (p MigrationPlan) Failed() (MigrationStep, bool) {
	for _, s := range p.Steps {
		if s.Status == MigrationFailed {
			return s, true
		}
	}
	return MigrationStep{}, false
}

// MigrationProgress records the last successful migration index per network.
type MigrationProgress map[string]int

// StartIndex is the first migration to run on a network.
func (p MigrationProgress) StartIndex(network string, reset bool) int {
	if reset {
		return 1
	}
	return p[network] + 1
}
