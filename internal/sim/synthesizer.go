package sim

import (
	"math/rand"
	"sort"

	"StockGym/internal/marketdata"
	"StockGym/internal/model"
)

// Synthesizer produces a plausible intraday price path for a company's daily
// OHLC bar by rescaling a randomly chosen historical template with a matching
// low/high ratio. Two identical bars can yield different paths; the
// environment is intentionally stochastic.
type Synthesizer struct {
	cache *Cache
	rng   *rand.Rand
}

// NewSynthesizer creates a Synthesizer drawing template choices from rng.
func NewSynthesizer(table *marketdata.TemplateTable, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{cache: NewCache(table), rng: rng}
}

// StartDay resets the per-day memoization. Call once per day rollover before
// synthesizing that day's companies.
func (s *Synthesizer) StartDay() {
	s.cache.Clear()
}

// Synthesize builds the day's simulation for one company bar. Degenerate
// ranges (high == low, or a non-positive high) yield a flat path pinned to
// the open price. A ratio bucket with no historical match yields an empty
// simulation: the company is not tradable that day.
func (s *Synthesizer) Synthesize(bar model.PriceBar) *DailySimulation {
	d := &DailySimulation{CompanyID: bar.CompanyID, Bar: bar}

	if bar.High <= 0 || bar.High == bar.Low {
		d.ticks = flatPath(bar.Open)
		return d
	}

	ratio := marketdata.NormalizedRatio(bar.High, bar.Low)
	rows := s.cache.Get(ratio)
	if len(rows) == 0 {
		return d
	}

	day := pickDistinct(s.rng, rows, func(r marketdata.TemplateRow) int { return r.Day })
	var dayRows []marketdata.TemplateRow
	for _, r := range rows {
		if r.Day == day {
			dayRows = append(dayRows, r)
		}
	}
	company := pickDistinct(s.rng, dayRows, func(r marketdata.TemplateRow) int { return r.CompanyID })

	var selected []marketdata.TemplateRow
	for _, r := range dayRows {
		if r.CompanyID == company {
			selected = append(selected, r)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Seconds < selected[j].Seconds })
	if len(selected) > MaxTicksPerDay {
		selected = selected[:MaxTicksPerDay]
	}

	span := bar.High - bar.Low
	d.ticks = make([]model.Quote, 0, len(selected))
	for _, r := range selected {
		d.ticks = append(d.ticks, model.Quote{
			AskPrice: denormalize(bar.Low, span, r.Ask, bar.High),
			BidPrice: denormalize(bar.Low, span, r.Bid, bar.High),
			Price:    denormalize(bar.Low, span, r.Price, bar.High),
		})
	}
	return d
}

// pickDistinct draws one value uniformly from the distinct keys of rows, in
// encounter order so that a fixed seed selects the same value every run.
func pickDistinct(rng *rand.Rand, rows []marketdata.TemplateRow, key func(marketdata.TemplateRow) int) int {
	seen := make(map[int]struct{}, len(rows))
	var distinct []int
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			distinct = append(distinct, k)
		}
	}
	return distinct[rng.Intn(len(distinct))]
}

// denormalize maps a [0,1] template value into the bar's price range,
// clamping against templates recorded slightly outside the unit interval.
func denormalize(low, span, normalized, high float64) float64 {
	p := low + normalized*span
	if p < low {
		return low
	}
	if p > high {
		return high
	}
	return p
}

func flatPath(price float64) []model.Quote {
	ticks := make([]model.Quote, MaxTicksPerDay)
	for i := range ticks {
		ticks[i] = model.Quote{AskPrice: price, BidPrice: price, Price: price}
	}
	return ticks
}
