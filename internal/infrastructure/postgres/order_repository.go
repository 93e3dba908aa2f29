package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos sobre PostgreSQL. orders.quote_id tiene índice único parcial.
type OrderRepo struct {
	db Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(db Querier) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, company_id, quote_id, code, description, delivery_date, total_value, has_advance, advance_value, pending_value, status, created_at, updated_at`

// Create devuelve domain.ErrDuplicate si el presupuesto ya tiene pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.CompanyID, nullString(o.QuoteID), o.Code, o.Description, o.DeliveryDate,
		o.TotalValue, o.HasAdvance, o.AdvanceValue, o.PendingValue, string(o.Status),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pedido para el presupuesto %s", domain.ErrDuplicate, o.QuoteID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE company_id = $1 ORDER BY delivery_date, created_at`, companyID)
}

func (r *OrderRepo) ListCompleted(ctx context.Context, companyID string) ([]*entity.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE company_id = $1 AND status = 'completed' ORDER BY id`, companyID)
}

func (r *OrderRepo) list(ctx context.Context, query, companyID string) ([]*entity.Order, error) {
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Update sobrescribe los campos editables si el estado sigue siendo expected.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order, expected entity.OrderStatus) (bool, error) {
	const query = `
		UPDATE orders SET code = $2, description = $3, delivery_date = $4, total_value = $5,
		       has_advance = $6, advance_value = $7, pending_value = $8, status = $9, updated_at = $10
		 WHERE id = $1 AND status = $11`
	cmd, err := r.db.Exec(ctx, query,
		o.ID, o.Code, o.Description, o.DeliveryDate, o.TotalValue,
		o.HasAdvance, o.AdvanceValue, o.PendingValue, string(o.Status), o.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// UpdateStatus solo escribe si el estado actual sigue siendo from.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, now time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), now)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *OrderRepo) CountByQuote(ctx context.Context, quoteID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders WHERE quote_id = $1`, quoteID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders by quote: %w", err)
	}
	return n, nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var quoteID *string
	var status string
	if err := row.Scan(
		&o.ID, &o.CompanyID, &quoteID, &o.Code, &o.Description, &o.DeliveryDate,
		&o.TotalValue, &o.HasAdvance, &o.AdvanceValue, &o.PendingValue, &status,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	st, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", o.ID, err)
	}
	o.QuoteID = derefString(quoteID)
	o.Status = st
	return &o, nil
}
