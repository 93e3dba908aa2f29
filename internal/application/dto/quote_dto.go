package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes.
type CreateQuoteRequest struct {
	ClientID     string          `json:"client_id" validate:"omitempty,max=100"`
	Code         string          `json:"code" validate:"required,max=50"`
	Description  string          `json:"description" validate:"required,max=2000"`
	DeliveryDate string          `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	CostValue    decimal.Decimal `json:"cost_value"`
	SaleValue    decimal.Decimal `json:"sale_value"`
}

// ConvertQuoteRequest sobreescrituras financieras al convertir en pedido.
// TotalValue nil toma el sale_value del presupuesto.
type ConvertQuoteRequest struct {
	TotalValue   *decimal.Decimal `json:"total_value,omitempty"`
	HasAdvance   bool             `json:"has_advance"`
	AdvanceValue decimal.Decimal  `json:"advance_value"`
}

// QuoteResponse presupuesto en respuestas. Si ya se convirtió no se guarda en
// el presupuesto; Convert lo cuenta en vivo sobre orders.
type QuoteResponse struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id,omitempty"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	DeliveryDate string          `json:"delivery_date"`
	CostValue    decimal.Decimal `json:"cost_value"`
	SaleValue    decimal.Decimal `json:"sale_value"`
	ProfitValue  decimal.Decimal `json:"profit_value"`
	Approved     bool            `json:"approved"`
	CreatedAt    time.Time       `json:"created_at"`
}
