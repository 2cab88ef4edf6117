package model

// DatedValue pairs a value with the trading date it was observed on.
type DatedValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// RangeSummary tracks open/close/high/low of a series across an episode.
type RangeSummary struct {
	Open  DatedValue `json:"open"`
	Close DatedValue `json:"close"`
	High  DatedValue `json:"high"`
	Low   DatedValue `json:"low"`
}

// OrderCounts tallies submitted vs. fulfilled orders of one side.
type OrderCounts struct {
	Total     int `json:"total"`
	Fulfilled int `json:"fulfilled"`
}

// EpisodeSummary aggregates an episode: index range, portfolio value range,
// and order statistics. It is updated every step and handed to the recorder
// when the episode ends.
type EpisodeSummary struct {
	Episode   int          `json:"episode"`
	Steps     int          `json:"steps"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Indexes   RangeSummary `json:"indexes"`
	Values    RangeSummary `json:"values"`
	Buys      OrderCounts  `json:"buys"`
	Sells     OrderCounts  `json:"sells"`
}
