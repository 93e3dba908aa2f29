package repository

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para Quote.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Quote, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Quote, error)
	// Approve marca approved=true (idempotente). false si no existe en la empresa.
	Approve(ctx context.Context, id, companyID string) (bool, error)
}
