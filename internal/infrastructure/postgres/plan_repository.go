package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo catálogo de planes sobre PostgreSQL.
type PlanRepo struct {
	db Querier
}

func NewPlanRepository(db Querier) *PlanRepo {
	return &PlanRepo{db: db}
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	var p entity.Plan
	err := r.db.QueryRow(ctx,
		`SELECT id, name, duration_months, price, created_at FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.DurationMonths, &p.Price, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (r *PlanRepo) List(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, duration_months, price, created_at FROM plans ORDER BY duration_months, price`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
