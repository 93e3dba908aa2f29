// Package quotes casos de uso de presupuestos: alta, aprobación y conversión en pedido.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var (
	// ErrNotApproved el presupuesto aún no fue aprobado.
	ErrNotApproved = fmt.Errorf("%w: el presupuesto no está aprobado", domain.ErrConflict)
	// ErrAlreadyConverted el presupuesto ya tiene un pedido vinculado.
	ErrAlreadyConverted = fmt.Errorf("%w: el presupuesto ya fue convertido en pedido", domain.ErrConflict)
)

// UseCase operaciones sobre presupuestos.
type UseCase struct {
	quoteRepo repository.QuoteRepository
	tx        TxRunner
	now       func() time.Time
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(quoteRepo repository.QuoteRepository, tx TxRunner, now func() time.Time, log zerolog.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{quoteRepo: quoteRepo, tx: tx, now: now, log: log}
}

// Create registra un presupuesto; profit = sale - cost.
func (uc *UseCase) Create(ctx context.Context, auth entity.AuthContext, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	delivery, err := time.ParseInLocation(time.DateOnly, in.DeliveryDate, now.Location())
	if err != nil {
		return nil, domain.NewValidationError("delivery_date", "fecha inválida")
	}
	if in.CostValue.IsNegative() {
		return nil, domain.NewValidationError("cost_value", "no puede ser negativo")
	}
	if err := fulfillment.ValidateMoney("cost_value", in.CostValue); err != nil {
		return nil, err
	}
	if err := fulfillment.ValidateMoney("sale_value", in.SaleValue); err != nil {
		return nil, err
	}
	if !in.SaleValue.IsPositive() {
		return nil, domain.NewValidationError("sale_value", "debe ser mayor que cero")
	}
	q := &entity.Quote{
		ID:           uuid.New().String(),
		CompanyID:    auth.CompanyID,
		ClientID:     in.ClientID,
		Code:         in.Code,
		Description:  in.Description,
		DeliveryDate: delivery,
		CostValue:    in.CostValue,
		SaleValue:    in.SaleValue,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	q.ComputeProfit()
	if err := uc.quoteRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}

// List presupuestos de la empresa.
func (uc *UseCase) List(ctx context.Context, auth entity.AuthContext) ([]dto.QuoteResponse, error) {
	list, err := uc.quoteRepo.ListByCompany(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuoteResponse(q))
	}
	return out, nil
}

// Approve marca el presupuesto como aprobado. No existe la operación inversa.
func (uc *UseCase) Approve(ctx context.Context, auth entity.AuthContext, id string) (*dto.QuoteResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	ok, err := uc.quoteRepo.Approve(ctx, id, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	q, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return toQuoteResponse(q), nil
}

// Convert crea el único pedido del presupuesto. Dentro de la transacción se
// bloquea la fila del presupuesto y se cuentan en vivo sus pedidos; el índice
// único sobre orders.quote_id cubre cualquier carrera restante.
func (uc *UseCase) Convert(ctx context.Context, auth entity.AuthContext, id string, in dto.ConvertQuoteRequest) (*dto.OrderResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	var out *entity.Order
	err := uc.tx.RunQuotes(ctx, func(quoteRepo repository.QuoteRepository, orderRepo repository.OrderRepository) error {
		q, err := quoteRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil || q.CompanyID != auth.CompanyID {
			return domain.ErrNotFound
		}
		if !q.Approved {
			return ErrNotApproved
		}
		n, err := orderRepo.CountByQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyConverted
		}

		total := q.SaleValue
		if in.TotalValue != nil {
			total = *in.TotalValue
		}
		fin := fulfillment.Financials{TotalValue: total, HasAdvance: in.HasAdvance, AdvanceValue: in.AdvanceValue}
		if err := fulfillment.ValidateFinancials(fin); err != nil {
			return err
		}

		now := uc.now()
		o := &entity.Order{
			ID:           uuid.New().String(),
			CompanyID:    q.CompanyID,
			QuoteID:      q.ID,
			Code:         q.Code,
			Description:  q.Description,
			DeliveryDate: q.DeliveryDate,
			TotalValue:   total,
			HasAdvance:   in.HasAdvance,
			AdvanceValue: in.AdvanceValue,
			Status:       entity.OrderInProgress,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		o.RecomputePending()
		if err := orderRepo.Create(ctx, o); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return ErrAlreadyConverted
			}
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", auth.CompanyID).Str("quote_id", id).Str("order_id", out.ID).Msg("presupuesto convertido en pedido")
	return orders.ToOrderResponse(out), nil
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		ID:           q.ID,
		ClientID:     q.ClientID,
		Code:         q.Code,
		Description:  q.Description,
		DeliveryDate: q.DeliveryDate.Format(time.DateOnly),
		CostValue:    q.CostValue,
		SaleValue:    q.SaleValue,
		ProfitValue:  q.ProfitValue,
		Approved:     q.Approved,
		CreatedAt:    q.CreatedAt,
	}
}
