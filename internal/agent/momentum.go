package agent

import (
	"StockGym/internal/calculator"
	"StockGym/internal/model"
)

// maPeriod is the lookback window of the momentum baseline, in steps.
const maPeriod = 8

// MomentumPolicy tracks each company's observed trade prices and trades on
// moving-average crossover: buy a small volume when the price rises above its
// recent mean, sell it back when the price falls below.
type MomentumPolicy struct {
	history map[int][]float64
	volume  float64
}

func NewMomentumPolicy() *MomentumPolicy {
	return &MomentumPolicy{history: make(map[int][]float64), volume: 10}
}

func (p *MomentumPolicy) Name() string { return "momentum" }

func (p *MomentumPolicy) Act(obs *model.Observation) *model.Action {
	act := &model.Action{}
	if obs == nil {
		return act
	}

	held := make(map[int]float64, len(obs.Portfolios))
	for _, h := range obs.Portfolios {
		held[h.CompanyID] = h.Volume
	}

	for _, q := range obs.Prices {
		series := append(p.history[q.CompanyID], q.Price)
		if len(series) > maPeriod {
			series = series[len(series)-maPeriod:]
		}
		p.history[q.CompanyID] = series

		ma, err := calculator.CalculateSMA(series, maPeriod)
		if err != nil {
			continue // not enough ticks observed yet
		}
		switch {
		case q.Price > ma && held[q.CompanyID] == 0:
			act.CompanyID = append(act.CompanyID, q.CompanyID)
			act.Operation = append(act.Operation, model.OpBuy)
			act.Price = append(act.Price, q.AskPrice)
			act.Volume = append(act.Volume, p.volume)
		case q.Price < ma && held[q.CompanyID] >= p.volume:
			act.CompanyID = append(act.CompanyID, q.CompanyID)
			act.Operation = append(act.Operation, model.OpSell)
			act.Price = append(act.Price, q.BidPrice)
			act.Volume = append(act.Volume, p.volume)
		}
	}
	act.CompanyCount = len(act.CompanyID)
	return act
}
