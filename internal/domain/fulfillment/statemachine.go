// Package fulfillment define las transiciones permitidas de un pedido y las
// validaciones de sus valores financieros.
package fulfillment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// MaxTotalValue tope de valor total aceptado para un pedido.
var MaxTotalValue = decimal.NewFromInt(10_000_000)

// transitions tabla de transiciones. completed y cancelled no tienen salida.
var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderInProgress:              {entity.OrderReady, entity.OrderCancelled},
	entity.OrderReady:                   {entity.OrderDeliveredPendingPayment, entity.OrderCompleted},
	entity.OrderDeliveredPendingPayment: {entity.OrderCompleted},
	entity.OrderCompleted:               nil,
	entity.OrderCancelled:               nil,
}

// CanTransition informa si from → to está en la tabla.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next devuelve los estados alcanzables desde from.
func Next(from entity.OrderStatus) []entity.OrderStatus {
	out := make([]entity.OrderStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// Transition valida y aplica from → to sobre el pedido. Devuelve true cuando
// el nuevo estado es completed (el llamador debe conciliar el libro).
func Transition(o *entity.Order, to entity.OrderStatus, now time.Time) (bool, error) {
	if !CanTransition(o.Status, to) {
		return false, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = now
	return to == entity.OrderCompleted, nil
}

// Financials valores editables de un pedido.
type Financials struct {
	TotalValue   decimal.Decimal
	HasAdvance   bool
	AdvanceValue decimal.Decimal
}

// MoneyScale decimales admitidos en un importe; las columnas son NUMERIC(12,2).
const MoneyScale = 2

// ValidateMoney rechaza importes con más de MoneyScale decimales significativos.
// 10.500 se acepta; 0.004 no.
func ValidateMoney(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(MoneyScale)) {
		return domain.NewValidationError(field, "máximo 2 decimales")
	}
	return nil
}

// ValidateFinancials aplica las guardas de creación/edición:
// TotalValue > 0 y, con adelanto, 0 ≤ AdvanceValue ≤ TotalValue. Ambos con
// escala monetaria.
func ValidateFinancials(f Financials) error {
	if err := ValidateMoney("total_value", f.TotalValue); err != nil {
		return err
	}
	if !f.TotalValue.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("total_value", "el valor total debe ser positivo")
	}
	if f.TotalValue.GreaterThan(MaxTotalValue) {
		return domain.NewValidationError("total_value", "valor total muy alto")
	}
	if !f.HasAdvance {
		return nil
	}
	if err := ValidateMoney("advance_value", f.AdvanceValue); err != nil {
		return err
	}
	if f.AdvanceValue.IsNegative() {
		return domain.NewValidationError("advance_value", "el adelanto no puede ser negativo")
	}
	if f.AdvanceValue.GreaterThan(f.TotalValue) {
		return domain.NewValidationError("advance_value", "el adelanto no puede superar el valor total")
	}
	return nil
}

// ValidateDeliveryDate exige que la fecha de entrega no sea anterior a hoy
// (solo en creación). Se compara por día calendario en la zona de now.
func ValidateDeliveryDate(delivery, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if delivery.IsZero() {
		return domain.NewValidationError("delivery_date", "la fecha de entrega es obligatoria")
	}
	if delivery.Before(today) {
		return domain.NewValidationError("delivery_date", "la fecha de entrega debe ser futura")
	}
	return nil
}
