package memory

import (
	"context"
	"sync"
	"time"

	appaccess "github.com/jhoicas/pedidos-api/internal/application/access"
	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
)

var _ appaccess.StatusCache = (*StatusCache)(nil)

type cachedStatus struct {
	res     domainaccess.Result
	expires time.Time
}

// StatusCache caché de estado de acceso en proceso, con TTL.
type StatusCache struct {
	mu  sync.Mutex
	now func() time.Time
	m   map[string]cachedStatus
}

// NewStatusCache now nil usa time.Now.
func NewStatusCache(now func() time.Time) *StatusCache {
	if now == nil {
		now = time.Now
	}
	return &StatusCache{now: now, m: map[string]cachedStatus{}}
}

func (c *StatusCache) Get(_ context.Context, companyID string) (domainaccess.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[companyID]
	if !ok || !c.now().Before(e.expires) {
		delete(c.m, companyID)
		return domainaccess.Result{}, false, nil
	}
	return e.res, true, nil
}

func (c *StatusCache) Set(_ context.Context, companyID string, res domainaccess.Result, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[companyID] = cachedStatus{res: res, expires: c.now().Add(ttl)}
	return nil
}

func (c *StatusCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, companyID)
	return nil
}
