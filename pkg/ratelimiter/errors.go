package ratelimiter

import "errors"

var (
	// ErrUnsupportedStore is returned when the store provides neither
	// atomic script evaluation nor per-key locking.
	ErrUnsupportedStore = errors.New("ratelimiter: store supports neither Eval nor WithLock")

	// ErrMissingKey is returned when Check is called without a key.
	ErrMissingKey = errors.New("ratelimiter: key is required")

	// ErrInvalidLimit is returned when maxRequests is not positive.
	ErrInvalidLimit = errors.New("ratelimiter: maxRequests must be positive")
)
