// Package cache caché del estado de acceso sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appaccess "github.com/jhoicas/pedidos-api/internal/application/access"
	domainaccess "github.com/jhoicas/pedidos-api/internal/domain/access"
	"github.com/jhoicas/pedidos-api/pkg/config"
)

var _ appaccess.StatusCache = (*RedisStatusCache)(nil)

const keyPrefix = "access:status:"

// Connect abre el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStatusCache guarda el Result serializado en JSON con TTL.
type RedisStatusCache struct {
	client redis.Cmdable
}

// NewRedisStatusCache construye la caché sobre un cliente ya conectado.
func NewRedisStatusCache(client redis.Cmdable) *RedisStatusCache {
	return &RedisStatusCache{client: client}
}

func (c *RedisStatusCache) Get(ctx context.Context, companyID string) (domainaccess.Result, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+companyID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domainaccess.Result{}, false, nil
	}
	if err != nil {
		return domainaccess.Result{}, false, fmt.Errorf("redis get: %w", err)
	}
	var res domainaccess.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		// Entrada corrupta: se trata como ausente.
		return domainaccess.Result{}, false, nil
	}
	return res, true, nil
}

func (c *RedisStatusCache) Set(ctx context.Context, companyID string, res domainaccess.Result, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+companyID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisStatusCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.client.Del(ctx, keyPrefix+companyID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
