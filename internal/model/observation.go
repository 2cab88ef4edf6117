package model

// CompanyQuote is the observable price triple for one tradable company.
type CompanyQuote struct {
	CompanyID int     `json:"company_id"`
	AskPrice  float64 `json:"ask_price"`
	BidPrice  float64 `json:"bid_price"`
	Price     float64 `json:"price"`
}

// IndexLevels is the day's index-level OHLC snapshot.
type IndexLevels struct {
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
}

// Observation is the environment state exposed to the agent after each step.
type Observation struct {
	Day                   int            `json:"day"`
	Second                int            `json:"second"` // seconds since midnight
	Date                  string         `json:"date"`
	CompanyCount          int            `json:"company_count"`
	Prices                []CompanyQuote `json:"prices"`
	PortfolioCompanyCount int            `json:"portfolio_company_count"`
	Portfolios            []Holding      `json:"portfolios"`
	AvailableFund         float64        `json:"available_fund"`
	BankBalance           float64        `json:"bank_balance"`
	TotalValue            float64        `json:"total_value"`
	Indexes               IndexLevels    `json:"indexes"`
}

// TransactionInfo describes one order's outcome within a step.
type TransactionInfo struct {
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Fulfilled bool    `json:"fulfilled"`
}

// CompanyInfo carries catalog details for companies touched by a step.
type CompanyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sector      string `json:"sector,omitempty"`
}

// StepInfo is the per-step diagnostic record, keyed by company id.
type StepInfo struct {
	Transactions map[int]TransactionInfo `json:"transactions"`
	Companies    map[int]CompanyInfo     `json:"companies"`
}

// NewStepInfo returns an empty StepInfo with initialized maps.
func NewStepInfo() StepInfo {
	return StepInfo{
		Transactions: make(map[int]TransactionInfo),
		Companies:    make(map[int]CompanyInfo),
	}
}
