package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the Store contract. It is the
// distributed tier: atomic scripts run server-side and locks are taken
// with SET NX.
type Redis struct {
	client    redis.UniversalClient
	lockTTL   time.Duration
	lockRetry time.Duration
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithLockTTL bounds how long a crashed holder can keep a lock.
func WithLockTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

// WithLockRetryInterval sets the polling interval while waiting on a lock.
func WithLockRetryInterval(interval time.Duration) RedisOption {
	return func(r *Redis) {
		if interval > 0 {
			r.lockRetry = interval
		}
	}
}

// NewRedis wraps an existing go-redis client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    client,
		lockTTL:   10 * time.Second,
		lockRetry: 25 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Clear removes every key in the module namespace, batching deletes as the
// scan progresses.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, Namespace+":*", 500).Iterator()

	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Shared reports true: the store is visible across processes.
func (r *Redis) Shared() bool { return true }

// Eval runs a Lua script atomically on the server.
func (r *Redis) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	return r.client.Eval(ctx, script, keys, args...).Result()
}

// WithLock acquires a SET NX lock on <key>:lock, polling until acquired or
// the context is cancelled. The lock expires after the configured TTL so a
// crashed holder cannot wedge the key.
func (r *Redis) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := key + ":lock"

	for {
		ok, err := r.client.SetNX(ctx, lockKey, "1", r.lockTTL).Result()
		if err != nil {
			return err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.lockRetry):
		}
	}
	defer r.client.Del(context.WithoutCancel(ctx), lockKey)

	return fn(ctx)
}
