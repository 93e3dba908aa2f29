package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote presupuesto de un cliente. Approved pasa de false a true una sola vez.
type Quote struct {
	ID           string
	CompanyID    string
	ClientID     string
	Code         string
	Description  string
	DeliveryDate time.Time
	CostValue    decimal.Decimal
	SaleValue    decimal.Decimal
	ProfitValue  decimal.Decimal // SaleValue - CostValue
	Approved     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComputeProfit recalcula ProfitValue.
func (q *Quote) ComputeProfit() {
	q.ProfitValue = q.SaleValue.Sub(q.CostValue)
}
