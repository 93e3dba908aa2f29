// Package orders casos de uso del ciclo de vida de un pedido.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// errStaleStatus el estado cambió entre la lectura y la escritura condicional.
var errStaleStatus = fmt.Errorf("%w: el pedido fue modificado por otra operación", domain.ErrConflict)

// UseCase operaciones sobre pedidos.
type UseCase struct {
	orderRepo   repository.OrderRepository
	companyRepo repository.CompanyRepository
	tx          TxRunner
	sweeper     Sweeper
	receipts    ReceiptRenderer
	metrics     ledger.Metrics
	now         func() time.Time
	log         zerolog.Logger
}

// Deps dependencias del caso de uso. Sweeper, Receipts y Metrics son opcionales.
type Deps struct {
	Orders    repository.OrderRepository
	Companies repository.CompanyRepository
	Tx        TxRunner
	Sweeper   Sweeper
	Receipts  ReceiptRenderer
	Metrics   ledger.Metrics
	Now       func() time.Time
	Log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		orderRepo:   d.Orders,
		companyRepo: d.Companies,
		tx:          d.Tx,
		sweeper:     d.Sweeper,
		receipts:    d.Receipts,
		metrics:     d.Metrics,
		now:         d.Now,
		log:         d.Log,
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	return uc
}

type nopMetrics struct{}

func (nopMetrics) LedgerEntryCreated(string) {}

// ── Alta ──────────────────────────────────────────────────────────────────────

// Create registra un pedido nuevo en in_progress (o ready si es una importación pre-completada).
func (uc *UseCase) Create(ctx context.Context, auth entity.AuthContext, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	delivery, err := parseDate("delivery_date", in.DeliveryDate, now.Location())
	if err != nil {
		return nil, err
	}
	if err := fulfillment.ValidateDeliveryDate(delivery, now); err != nil {
		return nil, err
	}
	fin := fulfillment.Financials{TotalValue: in.TotalValue, HasAdvance: in.HasAdvance, AdvanceValue: in.AdvanceValue}
	if err := fulfillment.ValidateFinancials(fin); err != nil {
		return nil, err
	}

	status := entity.OrderInProgress
	if in.PreCompleted {
		status = entity.OrderReady
	}
	o := &entity.Order{
		ID:           uuid.New().String(),
		CompanyID:    auth.CompanyID,
		Code:         in.Code,
		Description:  in.Description,
		DeliveryDate: delivery,
		TotalValue:   in.TotalValue,
		HasAdvance:   in.HasAdvance,
		AdvanceValue: in.AdvanceValue,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	o.RecomputePending()
	if err := uc.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ── Transiciones ──────────────────────────────────────────────────────────────

// Transition aplica una transición de la tabla. La escritura es condicional al
// estado leído; al entrar en completed concilia el libro en la misma transacción.
func (uc *UseCase) Transition(ctx context.Context, auth entity.AuthContext, id, status string) (*dto.OrderResponse, error) {
	to, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.NewValidationError("status", err.Error())
	}
	var out *entity.Order
	var created bool
	err = uc.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, ledgerRepo repository.LedgerRepository) error {
		o, err := loadOwned(ctx, orderRepo, auth, id)
		if err != nil {
			return err
		}
		from := o.Status
		now := uc.now()
		completed, err := fulfillment.Transition(o, to, now)
		if err != nil {
			return err
		}
		ok, err := orderRepo.UpdateStatus(ctx, o.ID, from, to, now)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleStatus
		}
		if completed {
			if created, err = ledger.Reconcile(ctx, ledgerRepo, o, now); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		uc.metrics.LedgerEntryCreated("transition")
	}
	uc.log.Info().
		Str("company_id", auth.CompanyID).
		Str("order_id", out.ID).
		Str("status", string(out.Status)).
		Bool("ledger_entry_created", created).
		Msg("pedido cambió de estado")
	return ToOrderResponse(out), nil
}

// ── Edición ───────────────────────────────────────────────────────────────────

// Edit sobrescribe los campos del pedido (última escritura gana). La escritura
// es condicional al estado leído: si otra operación lo cambió devuelve conflicto.
// Un cambio de estado fuera de la tabla de transiciones es una corrección
// administrativa: solo admin/superadmin, queda registrada y concilia si el
// resultado es completed.
func (uc *UseCase) Edit(ctx context.Context, auth entity.AuthContext, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	delivery, err := parseDate("delivery_date", in.DeliveryDate, now.Location())
	if err != nil {
		return nil, err
	}
	fin := fulfillment.Financials{TotalValue: in.TotalValue, HasAdvance: in.HasAdvance, AdvanceValue: in.AdvanceValue}
	if err := fulfillment.ValidateFinancials(fin); err != nil {
		return nil, err
	}
	var target entity.OrderStatus
	if in.Status != "" {
		if target, err = entity.ParseOrderStatus(in.Status); err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
	}

	var out *entity.Order
	var created bool
	err = uc.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, ledgerRepo repository.LedgerRepository) error {
		o, err := loadOwned(ctx, orderRepo, auth, id)
		if err != nil {
			return err
		}
		from := o.Status
		if target != "" && target != o.Status && !fulfillment.CanTransition(o.Status, target) {
			if !auth.Role.IsAdministrative() {
				return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, o.Status, target)
			}
			uc.log.Warn().
				Str("company_id", auth.CompanyID).
				Str("order_id", o.ID).
				Str("user_id", auth.UserID).
				Str("from", string(o.Status)).
				Str("to", string(target)).
				Msg("corrección administrativa de estado fuera de la tabla de transiciones")
		}
		o.Code = in.Code
		o.Description = in.Description
		o.DeliveryDate = delivery
		o.TotalValue = in.TotalValue
		o.HasAdvance = in.HasAdvance
		o.AdvanceValue = in.AdvanceValue
		o.RecomputePending()
		if target != "" {
			o.Status = target
		}
		o.UpdatedAt = now
		ok, err := orderRepo.Update(ctx, o, from)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleStatus
		}
		if o.Status == entity.OrderCompleted {
			if created, err = ledger.Reconcile(ctx, ledgerRepo, o, now); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		uc.metrics.LedgerEntryCreated("transition")
	}
	return ToOrderResponse(out), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// List ejecuta el barrido de conciliación de la empresa y devuelve sus pedidos.
// Un fallo del barrido se registra y no impide el listado.
func (uc *UseCase) List(ctx context.Context, auth entity.AuthContext) ([]dto.OrderResponse, error) {
	if uc.sweeper != nil {
		if _, err := uc.sweeper.Sweep(ctx, auth.CompanyID); err != nil {
			uc.log.Error().Err(err).Str("company_id", auth.CompanyID).Msg("barrido de conciliación falló")
		}
	}
	list, err := uc.orderRepo.ListByCompany(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// Get pedido de la empresa del llamador.
func (uc *UseCase) Get(ctx context.Context, auth entity.AuthContext, id string) (*dto.OrderResponse, error) {
	o, err := loadOwned(ctx, uc.orderRepo, auth, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Receipt comprobante PDF del pedido.
func (uc *UseCase) Receipt(ctx context.Context, auth entity.AuthContext, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, errors.New("orders: generador de comprobantes no configurado")
	}
	o, err := loadOwned(ctx, uc.orderRepo, auth, id)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.RenderOrderReceipt(o, company)
}

func loadOwned(ctx context.Context, repo repository.OrderRepository, auth entity.AuthContext, id string) (*entity.Order, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.CompanyID != auth.CompanyID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func parseDate(field, s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha inválida")
	}
	return t, nil
}

// ToOrderResponse convierte la entidad a DTO, incluyendo los estados alcanzables.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	next := fulfillment.Next(o.Status)
	ns := make([]string, 0, len(next))
	for _, s := range next {
		ns = append(ns, string(s))
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		QuoteID:      o.QuoteID,
		Code:         o.Code,
		Description:  o.Description,
		DeliveryDate: o.DeliveryDate.Format(time.DateOnly),
		TotalValue:   o.TotalValue,
		HasAdvance:   o.HasAdvance,
		AdvanceValue: o.AdvanceValue,
		PendingValue: o.PendingValue,
		Status:       string(o.Status),
		NextStatuses: ns,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
