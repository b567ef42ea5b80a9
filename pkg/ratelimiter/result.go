package ratelimiter

import "time"

// Result describes the outcome of a window check.
type Result struct {
	// Count is the request count the caller observed: the pre-increment
	// value while the window has room, the post-increment value once the
	// limit is exceeded.
	Count int
	// CreatedAt is the window origin, unix seconds.
	CreatedAt int64
	// FailedAttempts is the companion counter of denied requests.
	FailedAttempts int
	// CanContinue is false once the window's quota is exhausted.
	CanContinue bool

	// Limit and Window echo the check configuration for header emission.
	Limit  int
	Window int
}

// Remaining returns the requests left in the window, clamped to zero.
func (r *Result) Remaining() int {
	if remaining := r.Limit - r.Count; remaining > 0 {
		return remaining
	}
	return 0
}

// ResetAt returns when the window's TTL lapses and the count resets.
func (r *Result) ResetAt() time.Time {
	return time.Unix(r.CreatedAt+int64(r.Window), 0)
}

// RetryAfter returns how long a denied caller should wait, clamped to zero.
func (r *Result) RetryAfter() time.Duration {
	if wait := time.Until(r.ResetAt()); wait > 0 {
		return wait
	}
	return 0
}
