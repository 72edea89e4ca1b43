package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache tracks revoked token IDs until the token would have expired anyway
type TokenCache interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type tokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a new revoked-token cache
func NewTokenCache(client *redis.Client) TokenCache {
	return &tokenCache{
		client: client,
	}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}

func (c *tokenCache) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired
	}
	return c.client.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

func (c *tokenCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedKey(jti)).Result()
	return n > 0, err
}
