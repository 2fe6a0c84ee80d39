package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	claveVersionCosteo = "costeo:ver"
	ttlDesglose        = 5 * time.Minute
)

// CacheCosteo is a best-effort read-through cache for cost breakdowns.
// Keys embed a global version counter: bumping the version on any cost-type
// change invalidates every cached breakdown at once, while per-product
// invalidation deletes the current-version key directly.
//
// A nil redis client disables caching entirely (unit test mode); every
// operation degrades to a miss or a no-op.
type CacheCosteo struct {
	rdb *redis.Client
}

func NewCacheCosteo(rdb *redis.Client) *CacheCosteo {
	return &CacheCosteo{rdb: rdb}
}

func (c *CacheCosteo) clave(ctx context.Context, productoID uuid.UUID) (string, bool) {
	ver, err := c.rdb.Get(ctx, claveVersionCosteo).Result()
	if err != nil {
		if err != redis.Nil {
			return "", false
		}
		ver = "0"
	}
	return fmt.Sprintf("desglose:v%s:%s", ver, productoID), true
}

func (c *CacheCosteo) ObtenerDesglose(ctx context.Context, productoID uuid.UUID) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	k, ok := c.clave(ctx, productoID)
	if !ok {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *CacheCosteo) GuardarDesglose(ctx context.Context, productoID uuid.UUID, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	k, ok := c.clave(ctx, productoID)
	if !ok {
		return
	}
	if err := c.rdb.Set(ctx, k, payload, ttlDesglose).Err(); err != nil {
		log.Warn().Err(err).Str("clave", k).Msg("cache: no se pudo guardar desglose")
	}
}

// InvalidarProducto drops the cached breakdown of one product.
func (c *CacheCosteo) InvalidarProducto(ctx context.Context, productoID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	k, ok := c.clave(ctx, productoID)
	if !ok {
		return
	}
	if err := c.rdb.Del(ctx, k).Err(); err != nil {
		log.Warn().Err(err).Str("clave", k).Msg("cache: no se pudo invalidar desglose")
	}
}

// InvalidarTodo bumps the version counter, orphaning every cached breakdown.
// Orphaned keys expire via TTL.
func (c *CacheCosteo) InvalidarTodo(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, claveVersionCosteo).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: no se pudo invalidar version de costeo")
	}
}
