package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// IntentRepository outbox de aprovisionamiento de suscripciones.
type IntentRepository interface {
	Create(ctx context.Context, intent *entity.ProvisioningIntent) error
	// Update persiste status, ids remotos y last_error.
	Update(ctx context.Context, intent *entity.ProvisioningIntent) error
	// ListStale intenciones en alguno de los estados dados creadas antes de before.
	ListStale(ctx context.Context, statuses []entity.IntentStatus, before time.Time) ([]*entity.ProvisioningIntent, error)
}
