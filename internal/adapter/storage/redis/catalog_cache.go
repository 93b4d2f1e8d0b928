package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// CatalogCache implements ports.CatalogCache using Redis. It holds the
// serialized game listing pages; every visibility change invalidates the
// affected game so a sold good never lingers in a listing.
type CatalogCache struct {
	client *goredis.Client
	prefix string
}

// NewCatalogCache creates a new Redis-backed catalog cache.
func NewCatalogCache(client *goredis.Client) *CatalogCache {
	return &CatalogCache{
		client: client,
		prefix: "catalog:game:",
	}
}

// GetGameListing retrieves a cached listing page for a game.
// Returns nil, nil if the key does not exist.
func (c *CatalogCache) GetGameListing(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+gameID.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis catalog get: %w", err)
	}
	return val, nil
}

// SetGameListing stores a listing page with TTL.
func (c *CatalogCache) SetGameListing(ctx context.Context, gameID uuid.UUID, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+gameID.String(), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis catalog set: %w", err)
	}
	return nil
}

// InvalidateGame drops the cached listing page for a game.
func (c *CatalogCache) InvalidateGame(ctx context.Context, gameID uuid.UUID) error {
	if err := c.client.Del(ctx, c.prefix+gameID.String()).Err(); err != nil {
		return fmt.Errorf("redis catalog invalidate: %w", err)
	}
	return nil
}
