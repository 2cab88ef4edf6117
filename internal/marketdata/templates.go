package marketdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// TemplateRow is one normalized intraday tick from the historical template
// table. Ask, Bid and Price are in [0,1] relative to the recorded day's
// low/high span; LowRatio is that day's low/high rounded to 3 decimals.
type TemplateRow struct {
	CompanyID int
	Day       int
	Seconds   int
	Ask       float64
	Bid       float64
	Price     float64
	LowRatio  float64
	HighRatio float64
}

// TemplateTable holds the full historical intraday template set.
type TemplateTable struct {
	rows []TemplateRow
}

// NewTemplateTable builds a table from already-loaded rows, normalizing each
// row's ratio to the 3-decimal bucket it is selected by.
func NewTemplateTable(rows []TemplateRow) *TemplateTable {
	for i := range rows {
		rows[i].LowRatio = Round3(rows[i].LowRatio)
	}
	return &TemplateTable{rows: rows}
}

// Len returns the number of ticks in the table.
func (t *TemplateTable) Len() int { return len(t.rows) }

// FilterByRatio returns all rows recorded under the given low/high ratio
// bucket. The scan is linear; callers memoize per day through sim.Cache.
func (t *TemplateTable) FilterByRatio(ratio float64) []TemplateRow {
	ratio = Round3(ratio)
	var out []TemplateRow
	for _, r := range t.rows {
		if r.LowRatio == ratio {
			out = append(out, r)
		}
	}
	return out
}

// Round3 rounds to 3 decimal places, the bucket granularity of the
// template table.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// NormalizedRatio returns price/high rounded to 3 decimals, or 0 when the
// high is degenerate.
func NormalizedRatio(high, price float64) float64 {
	if high == 0 {
		return 0
	}
	return Round3(price / high)
}

// LoadTemplateCSV reads the intraday template table from a CSV file with a
// header row and columns: company id, day, seconds, normalized ask, bid,
// trade price, normalized low, normalized high.
func LoadTemplateCSV(path string) (*TemplateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read template csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("template csv %s is empty", path)
	}

	rows := make([]TemplateRow, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		row, err := parseTemplateRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("template csv line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return NewTemplateTable(rows), nil
}

func parseTemplateRecord(rec []string) (TemplateRow, error) {
	var row TemplateRow
	var err error
	if row.CompanyID, err = strconv.Atoi(rec[0]); err != nil {
		return row, fmt.Errorf("company id %q: %w", rec[0], err)
	}
	if row.Day, err = strconv.Atoi(rec[1]); err != nil {
		return row, fmt.Errorf("day %q: %w", rec[1], err)
	}
	if row.Seconds, err = strconv.Atoi(rec[2]); err != nil {
		return row, fmt.Errorf("seconds %q: %w", rec[2], err)
	}
	fields := []*float64{&row.Ask, &row.Bid, &row.Price, &row.LowRatio, &row.HighRatio}
	for i, dst := range fields {
		if *dst, err = strconv.ParseFloat(rec[3+i], 64); err != nil {
			return row, fmt.Errorf("field %d %q: %w", 3+i, rec[3+i], err)
		}
	}
	row.LowRatio = Round3(row.LowRatio)
	return row, nil
}
