package repository

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// PlanRepository catálogo de planes (solo lectura).
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	List(ctx context.Context) ([]*entity.Plan, error)
}
