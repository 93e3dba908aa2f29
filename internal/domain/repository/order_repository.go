package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	// Create inserta el pedido. Devuelve domain.ErrDuplicate si el quote_id ya tiene pedido.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Order, error)
	// ListCompleted pedidos en completed de la empresa (para el barrido de conciliación).
	ListCompleted(ctx context.Context, companyID string) ([]*entity.Order, error)
	// Update sobrescribe los campos editables incluido el estado, solo si el estado
	// actual sigue siendo expected. false si la fila no existe o el estado cambió.
	Update(ctx context.Context, order *entity.Order, expected entity.OrderStatus) (bool, error)
	// UpdateStatus escritura condicional: solo aplica si el estado actual es from.
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, now time.Time) (bool, error)
	CountByQuote(ctx context.Context, quoteID string) (int, error)
}
