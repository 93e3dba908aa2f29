package orders

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de pedidos y del libro.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// ReceiptRenderer genera el comprobante PDF de un pedido.
type ReceiptRenderer interface {
	RenderOrderReceipt(order *entity.Order, company *entity.Company) ([]byte, error)
}

// Sweeper barrido de conciliación ejecutado antes de listar.
type Sweeper interface {
	Sweep(ctx context.Context, companyID string) (*dto.SweepResponse, error)
}
