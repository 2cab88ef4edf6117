package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noQuote(int) (float64, bool) { return 0, false }

func fixedPrice(p float64) func(int) (float64, bool) {
	return func(int) (float64, bool) { return p, true }
}

func TestBuySellRoundTrip(t *testing.T) {
	l := New(100000, 0)

	require.True(t, l.Buy(1, 50, 10))
	assert.Equal(t, 99500.0, l.AvailableFund())
	h, ok := l.Holding(1)
	require.True(t, ok)
	assert.Equal(t, 10.0, h.Volume)
	assert.Equal(t, 50.0, h.BuyPrice)
	assert.Equal(t, 50.0, h.LastPrice)

	require.True(t, l.Sell(1, 55, 10))
	assert.Equal(t, 100050.0, l.AvailableFund())
	h, ok = l.Holding(1)
	require.True(t, ok, "zero-volume holding must be retained")
	assert.Equal(t, 0.0, h.Volume)
	assert.Equal(t, 55.0, h.SellPrice)
	assert.Equal(t, 55.0, h.LastPrice)
}

func TestBuyInsufficientFunds(t *testing.T) {
	l := New(100, 0)

	require.False(t, l.Buy(1, 50, 10))
	assert.Equal(t, 100.0, l.AvailableFund())
	_, ok := l.Holding(1)
	assert.False(t, ok, "failed buy must not create a holding")
	assert.Equal(t, 1, l.Buys().Total)
	assert.Equal(t, 0, l.Buys().Fulfilled)
}

func TestBuyMaxAffordable(t *testing.T) {
	l := New(1000, 0)

	// volume below the negligible-zero tolerance means "spend everything"
	require.True(t, l.Buy(1, 30, 0))
	h, _ := l.Holding(1)
	assert.Equal(t, 33.0, h.Volume)
	assert.Equal(t, 10.0, l.AvailableFund())
}

func TestBuyAccumulatesAndOverwritesPrices(t *testing.T) {
	l := New(10000, 0)

	require.True(t, l.Buy(1, 50, 10))
	require.True(t, l.Buy(1, 60, 5))
	h, _ := l.Holding(1)
	assert.Equal(t, 15.0, h.Volume)
	// last fill wins, no weighted average
	assert.Equal(t, 60.0, h.BuyPrice)
	assert.Equal(t, 60.0, h.LastPrice)
	assert.Equal(t, 10000.0-500-300, l.AvailableFund())
}

func TestSellRequiresHolding(t *testing.T) {
	l := New(1000, 0)

	require.False(t, l.Sell(1, 50, 5), "no holding")

	require.True(t, l.Buy(1, 10, 5))
	require.False(t, l.Sell(1, 50, 6), "insufficient volume, no partial fill")
	h, _ := l.Holding(1)
	assert.Equal(t, 5.0, h.Volume)
	assert.Equal(t, 950.0, l.AvailableFund())
}

func TestTransactionRounding(t *testing.T) {
	l := New(100000, 0)

	require.True(t, l.Buy(1, 0.333, 3))
	// 3 * 0.333 = 0.999, exact at 3 decimals
	assert.Equal(t, 99999.001, l.AvailableFund())
}

func TestTotalValue(t *testing.T) {
	l := New(100000, 0)
	require.True(t, l.Buy(1, 50, 10))

	assert.Equal(t, 99500.0+10*52, l.TotalValue(fixedPrice(52)))

	// without a quote the holding is valued at its last transacted price
	assert.Equal(t, 99500.0+10*50, l.TotalValue(noQuote))

	// recomputable purely from cash and holdings
	expected := l.AvailableFund()
	for _, h := range l.Holdings() {
		expected += h.Volume * 52
	}
	assert.Equal(t, expected, l.TotalValue(fixedPrice(52)))
}

func TestBankBalanceUntouched(t *testing.T) {
	l := New(1000, 250)
	require.True(t, l.Buy(1, 100, 10))
	assert.Equal(t, 250.0, l.BankBalance())
}

func TestAvailableFundNeverNegative(t *testing.T) {
	l := New(500, 0)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		id := rng.Intn(5)
		price := rng.Float64()*100 + 0.01
		volume := float64(rng.Intn(50))
		if rng.Intn(2) == 0 {
			l.Buy(id, price, volume)
		} else {
			l.Sell(id, price, volume)
		}
		require.GreaterOrEqual(t, l.AvailableFund(), 0.0,
			"fund went negative at iteration %d", i)
	}
}
