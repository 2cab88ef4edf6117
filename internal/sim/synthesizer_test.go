package sim

import (
	"math/rand"
	"testing"

	"StockGym/internal/marketdata"
	"StockGym/internal/model"
)

// templateRows builds rows for one (company, day) under the given ratio, with
// normalized prices spread across the unit interval.
func templateRows(companyID, day, count int, ratio float64) []marketdata.TemplateRow {
	rows := make([]marketdata.TemplateRow, count)
	for i := 0; i < count; i++ {
		n := float64(i) / float64(count)
		rows[i] = marketdata.TemplateRow{
			CompanyID: companyID,
			Day:       day,
			Seconds:   i * 900,
			Ask:       n,
			Bid:       1 - n,
			Price:     n / 2,
			LowRatio:  ratio,
			HighRatio: 1,
		}
	}
	return rows
}

func TestSynthesizePricesStayInRange(t *testing.T) {
	bar := model.PriceBar{CompanyID: 1, Open: 50, Close: 55, High: 110, Low: 10}
	ratio := marketdata.NormalizedRatio(bar.High, bar.Low)
	table := marketdata.NewTemplateTable(templateRows(7, 3, 22, ratio))

	for seed := int64(0); seed < 20; seed++ {
		s := NewSynthesizer(table, rand.New(rand.NewSource(seed)))
		d := s.Synthesize(bar)
		if !d.Active() {
			t.Fatalf("seed %d: expected active simulation", seed)
		}
		for i := 0; i < d.TickCount(); i++ {
			q := d.Next()
			for _, p := range []float64{q.AskPrice, q.BidPrice, q.Price} {
				if p < bar.Low || p > bar.High {
					t.Fatalf("seed %d tick %d: price %.4f outside [%.2f, %.2f]",
						seed, i, p, bar.Low, bar.High)
				}
			}
		}
	}
}

func TestSynthesizeNoMatchingRatio(t *testing.T) {
	table := marketdata.NewTemplateTable(templateRows(7, 3, 10, 0.5))
	s := NewSynthesizer(table, rand.New(rand.NewSource(1)))

	// low/high = 0.25, no bucket
	d := s.Synthesize(model.PriceBar{CompanyID: 1, Open: 30, Close: 30, High: 40, Low: 10})
	if d.Active() {
		t.Fatal("expected empty simulation for unmatched ratio bucket")
	}
	if d.TickCount() != 0 {
		t.Fatalf("expected 0 ticks, got %d", d.TickCount())
	}
}

func TestSynthesizeDegenerateRangeIsFlat(t *testing.T) {
	table := marketdata.NewTemplateTable(nil)
	s := NewSynthesizer(table, rand.New(rand.NewSource(1)))

	tests := []struct {
		name string
		bar  model.PriceBar
	}{
		{"high equals low", model.PriceBar{CompanyID: 1, Open: 25, Close: 25, High: 25, Low: 25}},
		{"zero prices", model.PriceBar{CompanyID: 1, Open: 0, Close: 0, High: 0, Low: 0}},
	}
	for _, tt := range tests {
		d := s.Synthesize(tt.bar)
		if !d.Active() {
			t.Fatalf("%s: expected flat path, got empty simulation", tt.name)
		}
		if d.TickCount() != MaxTicksPerDay {
			t.Fatalf("%s: expected %d ticks, got %d", tt.name, MaxTicksPerDay, d.TickCount())
		}
		for i := 0; i < MaxTicksPerDay; i++ {
			q := d.Next()
			if q.AskPrice != tt.bar.Open || q.BidPrice != tt.bar.Open || q.Price != tt.bar.Open {
				t.Fatalf("%s tick %d: expected flat %v, got %+v", tt.name, i, tt.bar.Open, q)
			}
		}
	}
}

func TestSynthesizeTruncatesTicks(t *testing.T) {
	bar := model.PriceBar{CompanyID: 1, Open: 50, Close: 55, High: 100, Low: 50}
	ratio := marketdata.NormalizedRatio(bar.High, bar.Low)
	table := marketdata.NewTemplateTable(templateRows(7, 3, 40, ratio))

	s := NewSynthesizer(table, rand.New(rand.NewSource(1)))
	d := s.Synthesize(bar)
	if d.TickCount() != MaxTicksPerDay {
		t.Fatalf("expected %d ticks, got %d", MaxTicksPerDay, d.TickCount())
	}
}

func TestSynthesizeDeterministicWithSeed(t *testing.T) {
	bar := model.PriceBar{CompanyID: 1, Open: 50, Close: 55, High: 100, Low: 50}
	ratio := marketdata.NormalizedRatio(bar.High, bar.Low)

	// several days and companies in the bucket so the random picks matter
	var rows []marketdata.TemplateRow
	for day := 1; day <= 3; day++ {
		for cid := 10; cid <= 12; cid++ {
			rows = append(rows, templateRows(cid, day, 10, ratio)...)
		}
	}
	table := marketdata.NewTemplateTable(rows)

	run := func(seed int64) []model.Quote {
		s := NewSynthesizer(table, rand.New(rand.NewSource(seed)))
		var quotes []model.Quote
		for i := 0; i < 5; i++ {
			d := s.Synthesize(bar)
			for j := 0; j < d.TickCount(); j++ {
				quotes = append(quotes, d.Next())
			}
		}
		return quotes
	}

	a, b := run(42), run(42)
	if len(a) != len(b) {
		t.Fatalf("runs diverged in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("quote %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDailySimulationNextClampsAtLastTick(t *testing.T) {
	d := &DailySimulation{
		ticks: []model.Quote{
			{AskPrice: 1, BidPrice: 1, Price: 1},
			{AskPrice: 2, BidPrice: 2, Price: 2},
		},
	}
	d.Next()
	second := d.Next()
	third := d.Next()
	if second != third {
		t.Fatalf("expected exhausted simulation to repeat the last tick, got %+v then %+v", second, third)
	}
	if third.Price != 2 {
		t.Fatalf("expected last tick price 2, got %v", third.Price)
	}
}

func TestEmptySimulationNextReturnsZero(t *testing.T) {
	d := &DailySimulation{}
	if q := d.Next(); q != (model.Quote{}) {
		t.Fatalf("expected zero quote, got %+v", q)
	}
}

func TestCacheMemoizesIncludingEmptyResults(t *testing.T) {
	table := marketdata.NewTemplateTable(templateRows(7, 3, 5, 0.5))
	c := NewCache(table)

	if got := c.Get(0.5); len(got) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(got))
	}
	if got := c.Get(0.9); got != nil {
		t.Fatalf("expected no rows for unmatched ratio, got %d", len(got))
	}
	if c.Size() != 2 {
		t.Fatalf("expected 2 memoized buckets (one empty), got %d", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("expected empty cache after clear, got %d", c.Size())
	}
}
