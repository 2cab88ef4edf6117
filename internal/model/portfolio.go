package model

// Holding is one company's position in the portfolio. A holding is created on
// the first buy and retained even when its volume drops back to zero.
// BuyPrice, SellPrice and LastPrice reflect the most recent fill, not a
// weighted average.
type Holding struct {
	CompanyID int     `json:"company_id"`
	Volume    float64 `json:"volume"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	LastPrice float64 `json:"price"`
}
