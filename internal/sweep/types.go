package sweep

import (
	"time"

	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/model"
)

// Request carries the raw inputs of one sweep.
type Request struct {
	KeysText       string
	CollectionMode model.CollectionMode
	Target         string // many-to-one destination
	TargetsText    string // many-to-many destinations, one per line
	AmountMode     model.AmountMode
	FixedAmount    string
}

// Prepared is a validated plan that has not touched the network yet.
type Prepared struct {
	Accounts []model.Account // every parsed line, valid or not
	Valid    []model.Account
	Targets  model.TargetSet
	Plan     []model.PlanItem
	Settings amount.Settings
	Mode     model.CollectionMode
}

// Invalid returns the accounts that were excluded from the plan.
func (p *Prepared) Invalid() []model.Account {
	invalid := make([]model.Account, 0, len(p.Accounts)-len(p.Valid))
	for _, acc := range p.Accounts {
		if !acc.Valid {
			invalid = append(invalid, acc)
		}
	}

	return invalid
}

// Report is the outcome of an executed plan.
type Report struct {
	RunID      string
	Prepared   *Prepared
	Results    []model.TransactionResult
	Summary    model.Summary
	StartedAt  time.Time
	FinishedAt time.Time
}
