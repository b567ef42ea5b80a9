package cache

import (
	"context"
	"strings"
	"time"
)

// Namespace prefixes every key written by this module.
const Namespace = "zanix"

// Key builds a namespaced cache key: Key("otp", target) -> "zanix:otp:<target>".
func Key(parts ...string) string {
	return Namespace + ":" + strings.Join(parts, ":")
}

// Store is the narrow contract the core consumes from a cache provider.
// Local is the in-process implementation; Redis the distributed one.
type Store interface {
	// Get returns the value and whether the key exists and is unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a value with a time-to-live; ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key in the module namespace.
	Clear(ctx context.Context) error
	// Shared reports whether the store is visible across processes.
	// Components use it to pick between the distributed tier and the
	// local-cache-plus-durable-KV arrangement.
	Shared() bool
}

// Scripter is implemented by stores that can run an atomic server-side
// script. The distributed rate-limit path requires it.
type Scripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
}

// Locker is implemented by stores that provide per-key mutual exclusion.
// The local rate-limit path requires it.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
