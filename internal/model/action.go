package model

import "fmt"

// Operation is a per-company order type within an action batch.
type Operation int

const (
	OpHold Operation = iota
	OpBuy
	OpSell
	OpTopUp
	OpWithdraw

	operationCount
)

func (o Operation) String() string {
	switch o {
	case OpHold:
		return "hold"
	case OpBuy:
		return "buy"
	case OpSell:
		return "sell"
	case OpTopUp:
		return "top_up"
	case OpWithdraw:
		return "withdraw"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Action is one step's order batch. The slices are parallel arrays indexed
// 0..CompanyCount-1, matching the external action record layout.
type Action struct {
	CompanyCount int         `json:"company_count"`
	CompanyID    []int       `json:"company_id"`
	Operation    []Operation `json:"stock_operation"`
	Price        []float64   `json:"price"`
	Volume       []float64   `json:"volume"`
	EndBatch     bool        `json:"end_batch"`
}

// Validate checks the action against the parallel-array contract. A failure
// here means the caller built a malformed batch; the whole step is rejected.
func (a *Action) Validate() error {
	if a.CompanyCount < 0 {
		return fmt.Errorf("company_count %d is negative", a.CompanyCount)
	}
	if len(a.CompanyID) < a.CompanyCount || len(a.Operation) < a.CompanyCount ||
		len(a.Price) < a.CompanyCount || len(a.Volume) < a.CompanyCount {
		return fmt.Errorf("action arrays shorter than company_count %d", a.CompanyCount)
	}
	for i := 0; i < a.CompanyCount; i++ {
		if a.CompanyID[i] < 0 {
			return fmt.Errorf("order %d: company id %d is negative", i, a.CompanyID[i])
		}
		if a.Operation[i] < 0 || a.Operation[i] >= operationCount {
			return fmt.Errorf("order %d: unknown operation %d", i, a.Operation[i])
		}
		if a.Price[i] < 0 {
			return fmt.Errorf("order %d: price %f is negative", i, a.Price[i])
		}
		if a.Volume[i] < 0 {
			return fmt.Errorf("order %d: volume %f is negative", i, a.Volume[i])
		}
	}
	return nil
}
