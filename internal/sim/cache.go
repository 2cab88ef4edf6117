package sim

import "StockGym/internal/marketdata"

// Cache memoizes ratio-bucket template lookups for one simulated day. The
// underlying table scan is linear, so repeated lookups for companies sharing
// a ratio bucket would dominate day rollover without it. Cleared at the start
// of every simulated day.
type Cache struct {
	table   *marketdata.TemplateTable
	entries map[float64][]marketdata.TemplateRow
}

// NewCache creates an empty cache over the given template table.
func NewCache(table *marketdata.TemplateTable) *Cache {
	return &Cache{
		table:   table,
		entries: make(map[float64][]marketdata.TemplateRow),
	}
}

// Get returns the template rows recorded under the given low/high ratio,
// filtering the table on first use and memoizing the result (including
// empty results).
func (c *Cache) Get(ratio float64) []marketdata.TemplateRow {
	key := marketdata.Round3(ratio)
	if rows, ok := c.entries[key]; ok {
		return rows
	}
	rows := c.table.FilterByRatio(key)
	c.entries[key] = rows
	return rows
}

// Clear drops all memoized entries.
func (c *Cache) Clear() {
	c.entries = make(map[float64][]marketdata.TemplateRow)
}

// Size returns the number of memoized ratio buckets.
func (c *Cache) Size() int { return len(c.entries) }
