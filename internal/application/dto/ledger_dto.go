package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest movimiento manual del libro.
type CreateTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=revenue expense"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required,max=500"`
}

// SetPaidRequest body para PATCH /api/financial/transactions/:id/paid.
type SetPaidRequest struct {
	Paid bool `json:"paid"`
}

// TransactionResponse movimiento en respuestas.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Paid        bool            `json:"paid"`
	PaidDate    string          `json:"paid_date,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerSummaryResponse totales del libro.
type LedgerSummaryResponse struct {
	Revenue         decimal.Decimal `json:"revenue"`
	Expenses        decimal.Decimal `json:"expenses"`
	Balance         decimal.Decimal `json:"balance"`
	PendingRevenue  decimal.Decimal `json:"pending_revenue"`
	PendingExpenses decimal.Decimal `json:"pending_expenses"`
}

// SweepResponse resultado de un barrido de conciliación.
type SweepResponse struct {
	Checked int `json:"checked"`
	Created int `json:"created"`
}
