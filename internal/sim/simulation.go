package sim

import (
	"StockGym/internal/model"
)

// MaxTicksPerDay bounds the synthetic intraday path length.
const MaxTicksPerDay = 22

// DailySimulation owns one company's denormalized intraday tick sequence for
// a single simulated day. A simulation with no ticks means the company has no
// liquidity that day and is excluded from the tradable set.
type DailySimulation struct {
	CompanyID int
	Bar       model.PriceBar

	ticks  []model.Quote
	cursor int
}

// Active reports whether the company is tradable this day.
func (d *DailySimulation) Active() bool { return len(d.ticks) > 0 }

// TickCount returns the number of synthesized ticks.
func (d *DailySimulation) TickCount() int { return len(d.ticks) }

// Next returns the quote at the current tick and advances. Once the sequence
// is exhausted it keeps returning the last tick.
func (d *DailySimulation) Next() model.Quote {
	if len(d.ticks) == 0 {
		return model.Quote{}
	}
	q := d.ticks[d.cursor]
	if d.cursor < len(d.ticks)-1 {
		d.cursor++
	}
	return q
}
