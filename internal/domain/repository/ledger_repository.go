package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia para FinancialTransaction.
type LedgerRepository interface {
	// InsertForOrder inserción condicional atómica por order_id.
	// Devuelve false si ya existía un movimiento para ese pedido.
	InsertForOrder(ctx context.Context, tx *entity.FinancialTransaction) (bool, error)
	Create(ctx context.Context, tx *entity.FinancialTransaction) error
	GetByID(ctx context.Context, id string) (*entity.FinancialTransaction, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.FinancialTransaction, error)
	// SetPaid actualiza paid/paid_date solo de movimientos manuales (order_id nulo).
	SetPaid(ctx context.Context, id string, paid bool, paidDate *time.Time) (bool, error)
	Summary(ctx context.Context, companyID string) (*entity.LedgerSummary, error)
}
