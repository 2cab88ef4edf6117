package marketdata

import (
	"time"

	"StockGym/internal/model"
)

const dateFmt = "2006-01-02"

// Store is the in-memory historical data set the environment runs against:
// index daily history, per-company daily bars, company and sector catalogs,
// and the intraday template table. It is loaded once at construction and
// read-only afterwards.
type Store struct {
	index      []model.IndexBar
	barsByDate map[string][]model.PriceBar
	companies  map[int]model.Company
	sectors    map[int]model.Sector
	templates  *TemplateTable

	minDate time.Time
	maxDate time.Time
}

// NewStore builds a Store from already-loaded tables. The index slice must be
// ordered by date; Seq fields are rewritten to match slice positions.
func NewStore(index []model.IndexBar, bars map[string][]model.PriceBar,
	companies map[int]model.Company, sectors map[int]model.Sector,
	templates *TemplateTable) *Store {

	for i := range index {
		index[i].Seq = i
	}
	if companies == nil {
		companies = map[int]model.Company{}
	}
	if sectors == nil {
		sectors = map[int]model.Sector{}
	}
	if templates == nil {
		templates = NewTemplateTable(nil)
	}
	s := &Store{
		index:      index,
		barsByDate: bars,
		companies:  companies,
		sectors:    sectors,
		templates:  templates,
	}
	if len(index) > 0 {
		s.minDate, _ = time.Parse(dateFmt, index[0].Date)
		s.maxDate, _ = time.Parse(dateFmt, index[len(index)-1].Date)
	}
	return s
}

// Templates returns the intraday template table.
func (s *Store) Templates() *TemplateTable { return s.templates }

// MinDate returns the first date with index data.
func (s *Store) MinDate() time.Time { return s.minDate }

// MaxDate returns the last date with index data.
func (s *Store) MaxDate() time.Time { return s.maxDate }

// MaxTransactionDays returns the span of the historical range in days.
func (s *Store) MaxTransactionDays() int {
	return int(s.maxDate.Sub(s.minDate).Hours() / 24)
}

// FirstBarOnOrAfter returns the first index bar whose date is >= date.
func (s *Store) FirstBarOnOrAfter(date time.Time) (model.IndexBar, bool) {
	want := date.Format(dateFmt)
	for _, b := range s.index {
		if b.Date >= want {
			return b, true
		}
	}
	return model.IndexBar{}, false
}

// IndexBarAt returns the index bar at the given sequence position.
func (s *Store) IndexBarAt(seq int) (model.IndexBar, bool) {
	if seq < 0 || seq >= len(s.index) {
		return model.IndexBar{}, false
	}
	return s.index[seq], true
}

// IndexBars returns up to n bars ending at seq inclusive, for display windows.
func (s *Store) IndexBars(seq, n int) []model.IndexBar {
	if seq < 0 || seq >= len(s.index) || n <= 0 {
		return nil
	}
	start := seq - n + 1
	if start < 0 {
		start = 0
	}
	return s.index[start : seq+1]
}

// BarsOn returns all company daily bars for the given trading date.
func (s *Store) BarsOn(date string) []model.PriceBar {
	return s.barsByDate[date]
}

// Company looks up a catalog entry by id.
func (s *Store) Company(id int) (model.Company, bool) {
	c, ok := s.companies[id]
	return c, ok
}

// Sector looks up a sector by id.
func (s *Store) Sector(id int) (model.Sector, bool) {
	sec, ok := s.sectors[id]
	return sec, ok
}
