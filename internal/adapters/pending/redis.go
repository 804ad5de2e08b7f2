package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces pending-action keys in redis.
const keyPrefix = "tempo:pending:"

// RedisRepository implements Repository on redis; expiry is delegated
// to redis key TTLs so no reaper goroutine is needed.
type RedisRepository struct {
	rdb *redis.Client
	now func() time.Time
	ttl time.Duration
}

// RedisOption applies a configuration option to the RedisRepository.
type RedisOption func(*RedisRepository)

// WithRedisTTL overrides the expiry applied to actions stored without
// one.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *RedisRepository) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// NewRedisRepository creates a repository over an existing client.
func NewRedisRepository(rdb *redis.Client, opts ...RedisOption) *RedisRepository {
	r := &RedisRepository{rdb: rdb, now: time.Now, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put implements Repository.
func (r *RedisRepository) Put(ctx context.Context, a Action) error {
	if a.ID == "" || a.Owner == "" {
		return ErrInvalid
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = r.now().Add(r.ttl)
	}
	ttl := time.Until(a.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: expiry in the past", ErrInvalid)
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal pending action: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+a.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get implements Repository.
func (r *RedisRepository) Get(ctx context.Context, id string) (Action, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Action{}, ErrNotFound
		}
		return Action{}, fmt.Errorf("redis get failed: %w", err)
	}
	var a Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return Action{}, fmt.Errorf("unmarshal pending action: %w", err)
	}
	return a, nil
}

// Delete implements Repository.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
