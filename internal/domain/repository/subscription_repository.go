package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para Subscription.
type SubscriptionRepository interface {
	// Create inserta la suscripción; si el ID ya existe no hace nada y devuelve false.
	Create(ctx context.Context, sub *entity.Subscription) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	// GetLatestActive suscripción con status=active más reciente, con su plan. (nil, nil) si no hay.
	GetLatestActive(ctx context.Context, companyID string) (*entity.ActiveSubscription, error)
	// UpdateStatus escritura incondicional (last-write-wins). Devuelve el company_id
	// de la fila y false si el ID no existe.
	UpdateStatus(ctx context.Context, id string, status entity.SubscriptionStatus, now time.Time) (companyID string, found bool, err error)
}
