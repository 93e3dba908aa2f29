package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `id, name, document, email, trial_end_date, unlimited_access, billing_customer_id, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Document, company.Email,
		company.TrialEndDate, company.UnlimitedAccess, nullString(company.BillingCustomerID),
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// SetBillingCustomerID fija el cliente remoto una sola vez; dos solicitudes
// concurrentes no pueden pisarse porque el UPDATE exige la columna nula.
func (r *CompanyRepo) SetBillingCustomerID(ctx context.Context, id, customerID string) (bool, error) {
	const query = `
		UPDATE companies SET billing_customer_id = $2, updated_at = now()
		 WHERE id = $1 AND billing_customer_id IS NULL`
	cmd, err := r.db.Exec(ctx, query, id, customerID)
	if err != nil {
		return false, fmt.Errorf("set billing customer: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListTrialCandidates empresas con prueba y sin acceso ilimitado.
func (r *CompanyRepo) ListTrialCandidates(ctx context.Context) ([]*entity.Company, error) {
	query := `
		SELECT ` + companyColumns + ` FROM companies
		 WHERE unlimited_access = false AND trial_end_date IS NOT NULL
		 ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trial companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListIDs todos los ids de empresa (barrido de conciliación).
func (r *CompanyRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list company ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rowScanner lo común entre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var customer *string
	if err := row.Scan(
		&c.ID, &c.Name, &c.Document, &c.Email, &c.TrialEndDate, &c.UnlimitedAccess, &customer,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.BillingCustomerID = derefString(customer)
	return &c, nil
}
