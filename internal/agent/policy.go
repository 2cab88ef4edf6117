// Package agent provides baseline trading policies for benchmark runs. They
// are deliberately naive; the environment's real consumers are external
// learning agents.
package agent

import (
	"fmt"
	"math/rand"

	"StockGym/internal/model"
)

// Policy produces an action batch from the latest observation.
type Policy interface {
	Name() string
	Act(obs *model.Observation) *model.Action
}

// New returns the named baseline policy.
func New(name string, seed int64) (Policy, error) {
	switch name {
	case "hold":
		return HoldPolicy{}, nil
	case "random":
		return NewRandomPolicy(seed), nil
	case "momentum":
		return NewMomentumPolicy(), nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}

// HoldPolicy never trades; it measures the environment's idle drift.
type HoldPolicy struct{}

func (HoldPolicy) Name() string { return "hold" }

func (HoldPolicy) Act(_ *model.Observation) *model.Action {
	return &model.Action{}
}

// RandomPolicy buys or sells a small fixed volume of one randomly chosen
// tradable company per step, at the quoted side price.
type RandomPolicy struct {
	rng    *rand.Rand
	volume float64
}

func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed)), volume: 10}
}

func (p *RandomPolicy) Name() string { return "random" }

func (p *RandomPolicy) Act(obs *model.Observation) *model.Action {
	if obs == nil || len(obs.Prices) == 0 {
		return &model.Action{}
	}
	q := obs.Prices[p.rng.Intn(len(obs.Prices))]

	op := model.OpBuy
	price := q.AskPrice
	if p.rng.Intn(2) == 1 {
		op = model.OpSell
		price = q.BidPrice
	}
	return &model.Action{
		CompanyCount: 1,
		CompanyID:    []int{q.CompanyID},
		Operation:    []model.Operation{op},
		Price:        []float64{price},
		Volume:       []float64{p.volume},
	}
}
