package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idem:checkout:"
	idempotencyTTL    = 24 * time.Hour

	// idempotencyPending marks a key reserved by an in-flight checkout that
	// has not committed yet.
	idempotencyPending = "pending"
)

// IdempotencyRepository guards checkout submissions against duplicate
// processing. A key is reserved before the checkout transaction runs and
// resolved to the order ID after it commits.
type IdempotencyRepository interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Resolve(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
	Lookup(ctx context.Context, key string) (orderID string, pending bool, err error)
}

// RedisIdempotencyRepository implements IdempotencyRepository on Redis.
type RedisIdempotencyRepository struct {
	client *redis.Client
}

// NewRedisIdempotencyRepository creates a new RedisIdempotencyRepository.
func NewRedisIdempotencyRepository(client *redis.Client) IdempotencyRepository {
	return &RedisIdempotencyRepository{client: client}
}

// Reserve claims the key for this submission. Returns false when another
// submission already holds it.
func (r *RedisIdempotencyRepository) Reserve(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, idempotencyPrefix+key, idempotencyPending, idempotencyTTL).Result()
}

// Resolve records the committed order ID under the key so replays can
// return the original result.
func (r *RedisIdempotencyRepository) Resolve(ctx context.Context, key, orderID string) error {
	return r.client.Set(ctx, idempotencyPrefix+key, orderID, idempotencyTTL).Err()
}

// Release frees the key after a failed checkout so the client can retry.
func (r *RedisIdempotencyRepository) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyPrefix+key).Err()
}

// Lookup reports the state of a key: the committed order ID, an in-flight
// reservation, or nothing.
func (r *RedisIdempotencyRepository) Lookup(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, idempotencyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if value == idempotencyPending {
		return "", true, nil
	}
	return value, false, nil
}
