package kv

import (
	"context"
	"time"
)

// Store is the durable key-value contract. It backs the blocklist's
// persistence tier when no distributed cache is configured, so revocations
// survive process restarts.
type Store interface {
	// Get returns the value and whether the key exists and is unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a value; ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes a key.
	Delete(ctx context.Context, key string) error
	// Clear removes every stored key.
	Clear(ctx context.Context) error
}
