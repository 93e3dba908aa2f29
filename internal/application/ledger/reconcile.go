// Package ledger mantiene el libro financiero: conciliación de pedidos
// completados y movimientos manuales.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/jhoicas/pedidos-api/pkg/money"
)

const maxDescriptionLen = 500

// Reconcile garantiza que el pedido completado tenga exactamente un ingreso pagado.
// La inserción es condicional sobre order_id, por lo que es segura ante
// reinvocaciones y llamadas concurrentes. Devuelve true si insertó el movimiento.
// Los pedidos que no están en completed se ignoran.
func Reconcile(ctx context.Context, repo repository.LedgerRepository, o *entity.Order, now time.Time) (bool, error) {
	if o == nil || o.Status != entity.OrderCompleted {
		return false, nil
	}
	today := truncateDay(now)
	tx := &entity.FinancialTransaction{
		ID:          uuid.New().String(),
		CompanyID:   o.CompanyID,
		Type:        entity.TransactionRevenue,
		Amount:      o.TotalValue,
		DueDate:     today,
		Paid:        true,
		PaidDate:    &today,
		OrderID:     o.ID,
		Description: describeOrder(o),
		CreatedAt:   now,
	}
	created, err := repo.InsertForOrder(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("ledger: conciliar pedido %s: %w", o.ID, err)
	}
	return created, nil
}

func describeOrder(o *entity.Order) string {
	d := fmt.Sprintf("Receita do pedido %s: %s (%s)", o.Code, o.Description, money.Display(o.TotalValue))
	if r := []rune(d); len(r) > maxDescriptionLen {
		d = string(r[:maxDescriptionLen])
	}
	return d
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
