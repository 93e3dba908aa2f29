package repository

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve (nil, nil) si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListAdminsByCompany usuarios admin/superadmin activos de la empresa.
	ListAdminsByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
}
