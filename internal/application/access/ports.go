package access

import (
	"context"
	"time"

	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
)

// StatusCache caché del estado de acceso por empresa.
// Get devuelve ok=false cuando no hay entrada (o expiró).
type StatusCache interface {
	Get(ctx context.Context, companyID string) (res domainaccess.Result, ok bool, err error)
	Set(ctx context.Context, companyID string, res domainaccess.Result, ttl time.Duration) error
	Invalidate(ctx context.Context, companyID string) error
}

// NopCache no guarda nada; se usa cuando Redis no está configurado.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (domainaccess.Result, bool, error) {
	return domainaccess.Result{}, false, nil
}
func (NopCache) Set(context.Context, string, domainaccess.Result, time.Duration) error { return nil }
func (NopCache) Invalidate(context.Context, string) error                              { return nil }
