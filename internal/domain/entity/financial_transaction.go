package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de movimiento del libro financiero.
type TransactionType string

const (
	TransactionRevenue TransactionType = "revenue"
	TransactionExpense TransactionType = "expense"
)

// ParseTransactionType rechaza tokens desconocidos.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionRevenue, TransactionExpense:
		return t, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
}

// FinancialTransaction movimiento del libro. A lo sumo uno por OrderID no vacío
// (índice único parcial en la tabla).
type FinancialTransaction struct {
	ID          string
	CompanyID   string
	Type        TransactionType
	Amount      decimal.Decimal
	DueDate     time.Time
	Paid        bool
	PaidDate    *time.Time
	OrderID     string // vacío para movimientos manuales
	Description string
	CreatedAt   time.Time
}

// FromOrder informa si el movimiento fue generado por la conciliación de un pedido.
func (t *FinancialTransaction) FromOrder() bool {
	return t.OrderID != ""
}

// LedgerSummary totales del libro de una empresa.
type LedgerSummary struct {
	Revenue         decimal.Decimal
	Expenses        decimal.Decimal
	PendingRevenue  decimal.Decimal
	PendingExpenses decimal.Decimal
}
