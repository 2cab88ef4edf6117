// Package ledger implements the cash and portfolio accounting of the trading
// simulation. Monetary amounts are tracked as decimals: transaction totals
// round to 3 decimal places and the reported total value to 2, so reward
// signals do not drift with float error.
package ledger

import (
	"github.com/shopspring/decimal"

	"StockGym/internal/model"
)

// volumeEpsilon is the negligible-zero tolerance below which a requested buy
// volume means "buy the maximum affordable".
const volumeEpsilon = 1e-5

// Ledger holds the available cash, the bank balance, and per-company
// holdings. A holding is created on the first buy for a company and retained
// at zero volume after a full sell; valuation scales by volume so the retained
// record costs nothing.
type Ledger struct {
	available decimal.Decimal
	bank      decimal.Decimal
	holdings  map[int]*model.Holding
	order     []int // company ids in holding-creation order

	buys  model.OrderCounts
	sells model.OrderCounts
}

// New creates a ledger with the given starting cash and bank balance.
func New(initialFund, bankBalance float64) *Ledger {
	return &Ledger{
		available: decimal.NewFromFloat(initialFund),
		bank:      decimal.NewFromFloat(bankBalance),
		holdings:  make(map[int]*model.Holding),
	}
}

// Buy executes a fill of volume shares at askPrice. A volume within the
// negligible-zero tolerance with a positive price is interpreted as "buy the
// maximum affordable": floor(available/ask), decremented once more if the
// 3-decimal total still exceeds the available fund. Returns false and leaves
// the state untouched (order counters aside) when the total is unaffordable.
func (l *Ledger) Buy(companyID int, askPrice, volume float64) bool {
	l.buys.Total++

	price := decimal.NewFromFloat(askPrice)
	if volume < volumeEpsilon && askPrice > volumeEpsilon {
		vol := l.available.DivRound(price, 16).Floor()
		if l.available.LessThan(vol.Mul(price).Round(3)) {
			vol = vol.Sub(decimal.NewFromInt(1))
		}
		volume = vol.InexactFloat64()
	}

	total := decimal.NewFromFloat(volume).Mul(price).Round(3)
	if l.available.LessThan(total) {
		return false
	}
	l.available = l.available.Sub(total)

	h, ok := l.holdings[companyID]
	if !ok {
		h = &model.Holding{CompanyID: companyID}
		l.holdings[companyID] = h
		l.order = append(l.order, companyID)
	}
	h.Volume += volume
	h.BuyPrice = askPrice
	h.LastPrice = askPrice

	l.buys.Fulfilled++
	return true
}

// Sell executes a fill of volume shares at bidPrice. It requires an existing
// holding with at least the requested volume; there are no partial fills and
// no short selling.
func (l *Ledger) Sell(companyID int, bidPrice, volume float64) bool {
	l.sells.Total++

	h, ok := l.holdings[companyID]
	if !ok || h.Volume < volume {
		return false
	}
	total := decimal.NewFromFloat(volume).Mul(decimal.NewFromFloat(bidPrice)).Round(3)
	h.Volume -= volume
	h.SellPrice = bidPrice
	h.LastPrice = bidPrice
	l.available = l.available.Add(total)

	l.sells.Fulfilled++
	return true
}

// TotalValue returns the portfolio value rounded to 2 decimals: available
// cash plus each holding valued at the current market price, falling back to
// the holding's last transacted price when the company has no quote.
func (l *Ledger) TotalValue(currentPrice func(companyID int) (float64, bool)) float64 {
	total := l.available
	for _, id := range l.order {
		h := l.holdings[id]
		price, ok := currentPrice(id)
		if !ok {
			price = h.LastPrice
		}
		total = total.Add(decimal.NewFromFloat(h.Volume).Mul(decimal.NewFromFloat(price)))
	}
	v, _ := total.Round(2).Float64()
	return v
}

// AvailableFund returns the current cash balance.
func (l *Ledger) AvailableFund() float64 {
	v, _ := l.available.Float64()
	return v
}

// BankBalance returns the side cash pool, unused by trading.
func (l *Ledger) BankBalance() float64 {
	v, _ := l.bank.Float64()
	return v
}

// Holding returns a copy of the company's holding, if one exists.
func (l *Ledger) Holding(companyID int) (model.Holding, bool) {
	h, ok := l.holdings[companyID]
	if !ok {
		return model.Holding{}, false
	}
	return *h, true
}

// Holdings returns copies of all holdings in creation order.
func (l *Ledger) Holdings() []model.Holding {
	out := make([]model.Holding, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.holdings[id])
	}
	return out
}

// Buys returns the submitted/fulfilled buy order counts.
func (l *Ledger) Buys() model.OrderCounts { return l.buys }

// Sells returns the submitted/fulfilled sell order counts.
func (l *Ledger) Sells() model.OrderCounts { return l.sells }
