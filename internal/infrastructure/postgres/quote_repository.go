package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo presupuestos sobre PostgreSQL.
type QuoteRepo struct {
	db Querier
}

// NewQuoteRepository construye el adaptador de presupuestos.
func NewQuoteRepository(db Querier) *QuoteRepo {
	return &QuoteRepo{db: db}
}

const quoteColumns = `id, company_id, client_id, code, description, delivery_date, cost_value, sale_value, profit_value, approved, created_at, updated_at`

func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		q.ID, q.CompanyID, nullString(q.ClientID), q.Code, q.Description, q.DeliveryDate,
		q.CostValue, q.SaleValue, q.ProfitValue, q.Approved, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

// GetByIDForUpdate solo tiene sentido dentro de una transacción (TxRunner.RunQuotes).
func (r *QuoteRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuoteRepo) get(ctx context.Context, query, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func (r *QuoteRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func (r *QuoteRepo) Approve(ctx context.Context, id, companyID string) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE quotes SET approved = true, updated_at = now() WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, fmt.Errorf("approve quote: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanQuote(row rowScanner) (*entity.Quote, error) {
	var q entity.Quote
	var client *string
	if err := row.Scan(
		&q.ID, &q.CompanyID, &client, &q.Code, &q.Description, &q.DeliveryDate,
		&q.CostValue, &q.SaleValue, &q.ProfitValue, &q.Approved, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	q.ClientID = derefString(client)
	return &q, nil
}
