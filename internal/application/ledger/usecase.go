package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// UseCase operaciones del libro financiero de una empresa.
type UseCase struct {
	ledgerRepo  repository.LedgerRepository
	orderRepo   repository.OrderRepository
	companyRepo repository.CompanyRepository
	metrics     Metrics
	now         func() time.Time
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(
	ledgerRepo repository.LedgerRepository,
	orderRepo repository.OrderRepository,
	companyRepo repository.CompanyRepository,
	metrics Metrics,
	now func() time.Time,
	log zerolog.Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &UseCase{ledgerRepo: ledgerRepo, orderRepo: orderRepo, companyRepo: companyRepo, metrics: metrics, now: now, log: log}
}

// ── Conciliación ──────────────────────────────────────────────────────────────

// Sweep concilia todos los pedidos completed de la empresa. Repetirlo N veces
// deja exactamente un movimiento por pedido.
func (uc *UseCase) Sweep(ctx context.Context, companyID string) (*dto.SweepResponse, error) {
	orders, err := uc.orderRepo.ListCompleted(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("ledger: listar pedidos completados: %w", err)
	}
	out := &dto.SweepResponse{Checked: len(orders)}
	now := uc.now()
	for _, o := range orders {
		created, err := Reconcile(ctx, uc.ledgerRepo, o, now)
		if err != nil {
			return out, err
		}
		if created {
			out.Created++
			uc.metrics.LedgerEntryCreated("sweep")
			uc.log.Info().Str("company_id", companyID).Str("order_id", o.ID).Msg("ingreso faltante creado por barrido")
		}
	}
	return out, nil
}

// SweepAll recorre todas las empresas. Un fallo en una empresa se registra y no detiene el resto.
func (uc *UseCase) SweepAll(ctx context.Context) (*dto.SweepResponse, error) {
	ids, err := uc.companyRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: listar empresas: %w", err)
	}
	total := &dto.SweepResponse{}
	var failed int
	for _, id := range ids {
		res, err := uc.Sweep(ctx, id)
		if res != nil {
			total.Checked += res.Checked
			total.Created += res.Created
		}
		if err != nil {
			failed++
			uc.log.Error().Err(err).Str("company_id", id).Msg("barrido de conciliación falló")
		}
	}
	if failed > 0 {
		return total, fmt.Errorf("ledger: barrido falló en %d empresa(s)", failed)
	}
	return total, nil
}

// ── Movimientos manuales ──────────────────────────────────────────────────────

// CreateManual registra un movimiento manual (sin pedido), inicialmente no pagado.
func (uc *UseCase) CreateManual(ctx context.Context, auth entity.AuthContext, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	typ, err := entity.ParseTransactionType(in.Type)
	if err != nil {
		return nil, domain.NewValidationError("type", err.Error())
	}
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	if err := fulfillment.ValidateMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	due, err := time.Parse(time.DateOnly, in.DueDate)
	if err != nil {
		return nil, domain.NewValidationError("due_date", "fecha inválida")
	}
	tx := &entity.FinancialTransaction{
		ID:          uuid.New().String(),
		CompanyID:   auth.CompanyID,
		Type:        typ,
		Amount:      in.Amount,
		DueDate:     due,
		Description: in.Description,
		CreatedAt:   uc.now(),
	}
	if err := uc.ledgerRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	uc.metrics.LedgerEntryCreated("manual")
	return ToTransactionResponse(tx), nil
}

// SetPaid marca o desmarca un movimiento manual como pagado. Los movimientos
// generados por conciliación son inmutables.
func (uc *UseCase) SetPaid(ctx context.Context, auth entity.AuthContext, id string, paid bool) (*dto.TransactionResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	tx, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.CompanyID != auth.CompanyID {
		return nil, domain.ErrNotFound
	}
	if tx.FromOrder() {
		return nil, fmt.Errorf("%w: el movimiento pertenece al pedido %s", domain.ErrConflict, tx.OrderID)
	}
	var paidDate *time.Time
	if paid {
		d := truncateDay(uc.now())
		paidDate = &d
	}
	ok, err := uc.ledgerRepo.SetPaid(ctx, id, paid, paidDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	tx.Paid = paid
	tx.PaidDate = paidDate
	return ToTransactionResponse(tx), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// List movimientos de la empresa del llamador.
func (uc *UseCase) List(ctx context.Context, auth entity.AuthContext) ([]dto.TransactionResponse, error) {
	list, err := uc.ledgerRepo.ListByCompany(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, *ToTransactionResponse(tx))
	}
	return out, nil
}

// Summary totales pagados y pendientes.
func (uc *UseCase) Summary(ctx context.Context, auth entity.AuthContext) (*dto.LedgerSummaryResponse, error) {
	s, err := uc.ledgerRepo.Summary(ctx, auth.CompanyID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &entity.LedgerSummary{Revenue: decimal.Zero, Expenses: decimal.Zero, PendingRevenue: decimal.Zero, PendingExpenses: decimal.Zero}
	}
	return &dto.LedgerSummaryResponse{
		Revenue:         s.Revenue,
		Expenses:        s.Expenses,
		Balance:         s.Revenue.Sub(s.Expenses),
		PendingRevenue:  s.PendingRevenue,
		PendingExpenses: s.PendingExpenses,
	}, nil
}

// ToTransactionResponse convierte la entidad a DTO.
func ToTransactionResponse(tx *entity.FinancialTransaction) *dto.TransactionResponse {
	out := &dto.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		DueDate:     tx.DueDate.Format(time.DateOnly),
		Paid:        tx.Paid,
		OrderID:     tx.OrderID,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.PaidDate != nil {
		out.PaidDate = tx.PaidDate.Format(time.DateOnly)
	}
	return out
}
