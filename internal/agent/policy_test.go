package agent

import (
	"testing"

	"StockGym/internal/model"
)

func quoteObs(quotes ...model.CompanyQuote) *model.Observation {
	return &model.Observation{CompanyCount: len(quotes), Prices: quotes}
}

func TestNewKnownPolicies(t *testing.T) {
	for _, name := range []string{"hold", "random", "momentum"} {
		p, err := New(name, 1)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}
	if _, err := New("arbitrage", 1); err == nil {
		t.Error("unknown policy must error")
	}
}

func TestHoldPolicyNeverTrades(t *testing.T) {
	act := HoldPolicy{}.Act(quoteObs(model.CompanyQuote{CompanyID: 1, AskPrice: 50}))
	if act.CompanyCount != 0 || act.EndBatch {
		t.Errorf("hold produced %+v", act)
	}
	if err := act.Validate(); err != nil {
		t.Errorf("hold action invalid: %v", err)
	}
}

func TestRandomPolicyTradesQuotedPrices(t *testing.T) {
	p := NewRandomPolicy(7)
	obs := quoteObs(
		model.CompanyQuote{CompanyID: 1, AskPrice: 50, BidPrice: 45},
		model.CompanyQuote{CompanyID: 2, AskPrice: 30, BidPrice: 28},
	)
	asks := map[int]float64{1: 50, 2: 30}
	bids := map[int]float64{1: 45, 2: 28}

	for i := 0; i < 50; i++ {
		act := p.Act(obs)
		if err := act.Validate(); err != nil {
			t.Fatalf("invalid action: %v", err)
		}
		if act.CompanyCount != 1 {
			t.Fatalf("CompanyCount = %d, want 1", act.CompanyCount)
		}
		id := act.CompanyID[0]
		switch act.Operation[0] {
		case model.OpBuy:
			if act.Price[0] != asks[id] {
				t.Errorf("buy at %v, ask is %v", act.Price[0], asks[id])
			}
		case model.OpSell:
			if act.Price[0] != bids[id] {
				t.Errorf("sell at %v, bid is %v", act.Price[0], bids[id])
			}
		default:
			t.Errorf("unexpected operation %v", act.Operation[0])
		}
	}
}

func TestRandomPolicyHoldsWithoutQuotes(t *testing.T) {
	p := NewRandomPolicy(7)
	if act := p.Act(quoteObs()); act.CompanyCount != 0 {
		t.Errorf("empty observation produced %+v", act)
	}
	if act := p.Act(nil); act.CompanyCount != 0 {
		t.Errorf("nil observation produced %+v", act)
	}
}

func TestMomentumPolicyCrossover(t *testing.T) {
	p := NewMomentumPolicy()

	feed := func(price float64, heldVolume float64) *model.Action {
		obs := quoteObs(model.CompanyQuote{CompanyID: 1, AskPrice: price + 1, BidPrice: price - 1, Price: price})
		if heldVolume > 0 {
			obs.Portfolios = []model.Holding{{CompanyID: 1, Volume: heldVolume}}
			obs.PortfolioCompanyCount = 1
		}
		return p.Act(obs)
	}

	// warm-up: fewer than maPeriod observations, never trades
	for i := 0; i < maPeriod-1; i++ {
		if act := feed(40, 0); act.CompanyCount != 0 {
			t.Fatalf("traded during warm-up: %+v", act)
		}
	}

	// a price spike above the flat average triggers a buy
	act := feed(60, 0)
	if act.CompanyCount != 1 || act.Operation[0] != model.OpBuy {
		t.Fatalf("expected buy on upward crossover, got %+v", act)
	}
	if err := act.Validate(); err != nil {
		t.Fatalf("invalid action: %v", err)
	}

	// already holding: the same signal must not buy again
	if act := feed(60, 10); act.CompanyCount != 0 {
		t.Errorf("bought while holding: %+v", act)
	}

	// a drop below the average sells the position back
	act = feed(20, 10)
	if act.CompanyCount != 1 || act.Operation[0] != model.OpSell {
		t.Errorf("expected sell on downward crossover, got %+v", act)
	}
}
