package quotes

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de presupuestos y pedidos.
type TxRunner interface {
	RunQuotes(ctx context.Context, fn func(
		quoteRepo repository.QuoteRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
