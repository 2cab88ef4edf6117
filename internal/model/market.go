package model

// IndexBar is one day of index-level daily history.
type IndexBar struct {
	Seq   int     `json:"seq"`
	Date  string  `json:"date"` // YYYY-MM-DD
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
}

// PriceBar is one company's daily OHLC summary.
// Prices are positive and satisfy low <= open,close <= high.
type PriceBar struct {
	CompanyID int     `json:"company_id"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
}

// Quote is one synthetic intraday tick: current ask, bid, and last trade price.
type Quote struct {
	AskPrice float64 `json:"ask_price"`
	BidPrice float64 `json:"bid_price"`
	Price    float64 `json:"price"`
}

// Company is a catalog entry from the historical store.
type Company struct {
	ID          int
	Name        string
	Description string
	Code        string
	SectorID    int // 0 when the company has no sector
}

// Sector is a catalog entry from the historical store.
type Sector struct {
	ID       int
	Name     string
	FullName string
}
