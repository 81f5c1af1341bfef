package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCacheVersionKey = "cache:products:version"
	productCacheTTL        = 5 * time.Minute
)

// ProductCache is a versioned read-through cache for catalog responses.
// Invalidation bumps the version counter so every key minted under the old
// version simply expires unread.
type ProductCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewProductCache creates a new ProductCache.
func NewProductCache(client *redis.Client, logger *zap.Logger) *ProductCache {
	return &ProductCache{client: client, logger: logger}
}

func (c *ProductCache) version(ctx context.Context) int64 {
	v, err := c.client.Get(ctx, productCacheVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *ProductCache) key(ctx context.Context, suffix string) string {
	return fmt.Sprintf("cache:products:v%d:%s", c.version(ctx), suffix)
}

// Get unmarshals a cached response into dest, returning false on a miss.
func (c *ProductCache) Get(ctx context.Context, suffix string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, c.key(ctx, suffix)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", suffix), zap.Error(err))
		return false
	}
	return true
}

// Set stores a response under the current cache version.
func (c *ProductCache) Set(ctx context.Context, suffix string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(ctx, suffix), raw, productCacheTTL).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", zap.String("key", suffix), zap.Error(err))
	}
}

// Invalidate bumps the cache version, orphaning all existing entries.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, productCacheVersionKey).Err(); err != nil {
		c.logger.Warn("failed to bump product cache version", zap.Error(err))
	}
}
