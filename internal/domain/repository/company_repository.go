package repository

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// SetBillingCustomerID fija el cliente remoto solo si aún está vacío.
	// Devuelve false si ya tenía uno (se conserva el existente).
	SetBillingCustomerID(ctx context.Context, id, customerID string) (bool, error)
	// ListTrialCandidates empresas sin acceso ilimitado y con fecha de prueba.
	ListTrialCandidates(ctx context.Context) ([]*entity.Company, error)
	ListIDs(ctx context.Context) ([]string, error)
}
