package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro financiero. financial_transactions.order_id tiene índice
// único parcial; InsertForOrder se apoya en él.
type LedgerRepo struct {
	db Querier
}

// NewLedgerRepository construye el adaptador del libro.
func NewLedgerRepository(db Querier) *LedgerRepo {
	return &LedgerRepo{db: db}
}

const ledgerColumns = `id, company_id, type, amount, due_date, paid, paid_date, order_id, description, created_at`

// InsertForOrder devuelve false si el pedido ya tenía movimiento.
func (r *LedgerRepo) InsertForOrder(ctx context.Context, t *entity.FinancialTransaction) (bool, error) {
	query := `
		INSERT INTO financial_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id) WHERE order_id IS NOT NULL DO NOTHING`
	cmd, err := r.db.Exec(ctx, query, ledgerArgs(t)...)
	if err != nil {
		return false, fmt.Errorf("insert order transaction: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *LedgerRepo) Create(ctx context.Context, t *entity.FinancialTransaction) error {
	query := `
		INSERT INTO financial_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.Exec(ctx, query, ledgerArgs(t)...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func ledgerArgs(t *entity.FinancialTransaction) []any {
	return []any{
		t.ID, t.CompanyID, string(t.Type), t.Amount, t.DueDate, t.Paid, t.PaidDate,
		nullString(t.OrderID), t.Description, t.CreatedAt,
	}
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.FinancialTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM financial_transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *LedgerRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.FinancialTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM financial_transactions WHERE company_id = $1 ORDER BY due_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.FinancialTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SetPaid no toca movimientos generados por pedidos.
func (r *LedgerRepo) SetPaid(ctx context.Context, id string, paid bool, paidDate *time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE financial_transactions SET paid = $2, paid_date = $3 WHERE id = $1 AND order_id IS NULL`,
		id, paid, paidDate)
	if err != nil {
		return false, fmt.Errorf("set paid: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *LedgerRepo) Summary(ctx context.Context, companyID string) (*entity.LedgerSummary, error) {
	const query = `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'revenue' AND paid), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND paid), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'revenue' AND NOT paid), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND NOT paid), 0)
		  FROM financial_transactions
		 WHERE company_id = $1`
	var s entity.LedgerSummary
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&s.Revenue, &s.Expenses, &s.PendingRevenue, &s.PendingExpenses); err != nil {
		return nil, fmt.Errorf("ledger summary: %w", err)
	}
	return &s, nil
}

func scanTransaction(row rowScanner) (*entity.FinancialTransaction, error) {
	var t entity.FinancialTransaction
	var typ string
	var orderID *string
	if err := row.Scan(
		&t.ID, &t.CompanyID, &typ, &t.Amount, &t.DueDate, &t.Paid, &t.PaidDate,
		&orderID, &t.Description, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := entity.ParseTransactionType(typ)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	t.Type = parsed
	t.OrderID = derefString(orderID)
	return &t, nil
}
