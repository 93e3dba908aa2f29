package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
// PreCompleted permite importar un pedido ya terminado (nace en ready).
type CreateOrderRequest struct {
	Code         string          `json:"code" validate:"required,max=50"`
	Description  string          `json:"description" validate:"required,max=2000"`
	DeliveryDate string          `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	TotalValue   decimal.Decimal `json:"total_value"`
	HasAdvance   bool            `json:"has_advance"`
	AdvanceValue decimal.Decimal `json:"advance_value"`
	PreCompleted bool            `json:"pre_completed"`
}

// UpdateOrderRequest body para PUT /api/orders/:id. Status vacío conserva el estado actual;
// un valor distinto es la corrección administrativa (solo admin/superadmin).
type UpdateOrderRequest struct {
	Code         string          `json:"code" validate:"required,max=50"`
	Description  string          `json:"description" validate:"required,max=2000"`
	DeliveryDate string          `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	TotalValue   decimal.Decimal `json:"total_value"`
	HasAdvance   bool            `json:"has_advance"`
	AdvanceValue decimal.Decimal `json:"advance_value"`
	Status       string          `json:"status,omitempty"`
}

// TransitionOrderRequest body para POST /api/orders/:id/transitions.
type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID           string          `json:"id"`
	QuoteID      string          `json:"quote_id,omitempty"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	DeliveryDate string          `json:"delivery_date"`
	TotalValue   decimal.Decimal `json:"total_value"`
	HasAdvance   bool            `json:"has_advance"`
	AdvanceValue decimal.Decimal `json:"advance_value"`
	PendingValue decimal.Decimal `json:"pending_value"`
	Status       string          `json:"status"`
	NextStatuses []string        `json:"next_statuses"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
