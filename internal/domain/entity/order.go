package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de fulfillment de un pedido.
type OrderStatus string

const (
	OrderInProgress              OrderStatus = "in_progress"
	OrderReady                   OrderStatus = "ready"
	OrderDeliveredPendingPayment OrderStatus = "delivered_pending_payment"
	OrderCompleted               OrderStatus = "completed"
	OrderCancelled               OrderStatus = "cancelled"
)

// ParseOrderStatus solo acepta los tokens canónicos; los históricos
// (em_andamento, pedido_pronto, ...) se migran en 00002_canonical_order_status.sql.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderInProgress, OrderReady, OrderDeliveredPendingPayment, OrderCompleted, OrderCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de pedido desconocido %q", s)
}

// IsTerminal informa si no hay transiciones de salida.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order pedido en producción. QuoteID vacío cuando no nace de un presupuesto.
type Order struct {
	ID           string
	CompanyID    string
	QuoteID      string
	Code         string
	Description  string
	DeliveryDate time.Time
	TotalValue   decimal.Decimal
	HasAdvance   bool
	AdvanceValue decimal.Decimal
	PendingValue decimal.Decimal // TotalValue - AdvanceValue (si HasAdvance)
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecomputePending mantiene PendingValue = TotalValue - (AdvanceValue si HasAdvance).
func (o *Order) RecomputePending() {
	if !o.HasAdvance {
		o.AdvanceValue = decimal.Zero
		o.PendingValue = o.TotalValue
		return
	}
	o.PendingValue = o.TotalValue.Sub(o.AdvanceValue)
}
