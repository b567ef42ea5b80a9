// Package redis provides Redis client initialization with connection retry
// logic and health checking.
//
// It wraps the go-redis client with connection validation and retries at a
// fixed interval so the distributed cache tier comes up reliably at process
// start. The resulting client plugs straight into cache.NewRedis.
//
// Configuration maps from the environment:
//
//	cfg, err := redis.LoadConfig()       // REDIS_URI et al.
//	client, err := redis.Connect(ctx, cfg)
//	store := cache.NewRedis(client)
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
package redis
