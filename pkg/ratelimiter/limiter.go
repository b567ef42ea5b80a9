package ratelimiter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/zanix-io/auth/core/cache"
)

// Config provides environment-based limiter defaults.
type Config struct {
	// WindowSeconds is the fixed-window length.
	WindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
}

// DefaultMaxFailedAttempts bounds the escalation counter before it re-arms.
const DefaultMaxFailedAttempts = 3

// Limiter checks request counts against per-key fixed windows.
type Limiter struct {
	store  cache.Store
	window int
	logger *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithWindow overrides the environment-derived window length.
func WithWindow(seconds int) Option {
	return func(l *Limiter) {
		if seconds > 0 {
			l.window = seconds
		}
	}
}

// WithLogger sets the logger for abuse escalation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a limiter over the given store. The store must support
// either atomic script evaluation (distributed) or per-key locking
// (local); otherwise ErrUnsupportedStore is returned.
func New(store cache.Store, opts ...Option) (*Limiter, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ratelimiter: parse config: %w", err)
	}

	l := &Limiter{
		store:  store,
		window: cfg.WindowSeconds,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}

	switch store.(type) {
	case cache.Scripter, cache.Locker:
	default:
		return nil, ErrUnsupportedStore
	}
	return l, nil
}

// CheckOptions configures a single window check.
type CheckOptions struct {
	// Key identifies the counted principal, e.g. "zanix:rate-limit:<session>".
	Key string
	// MaxRequests is the window quota.
	MaxRequests int
	// WindowSeconds overrides the limiter's window for this check.
	WindowSeconds int
	// MaxFailedAttempts overrides the escalation threshold; default 3.
	MaxFailedAttempts int
}

// Check counts a request against the key's current window.
func (l *Limiter) Check(ctx context.Context, opts CheckOptions) (*Result, error) {
	if opts.Key == "" {
		return nil, ErrMissingKey
	}
	if opts.MaxRequests <= 0 {
		return nil, ErrInvalidLimit
	}

	window := opts.WindowSeconds
	if window <= 0 {
		window = l.window
	}
	maxFailed := opts.MaxFailedAttempts
	if maxFailed <= 0 {
		maxFailed = DefaultMaxFailedAttempts
	}

	var (
		result *Result
		err    error
	)
	if scripter, ok := l.store.(cache.Scripter); ok {
		result, err = l.checkScripted(ctx, scripter, opts.Key, opts.MaxRequests, window, maxFailed)
	} else {
		result, err = l.checkLocked(ctx, opts.Key, opts.MaxRequests, window, maxFailed)
	}
	if err != nil {
		return nil, err
	}

	result.Limit = opts.MaxRequests
	result.Window = window

	if !result.CanContinue && result.FailedAttempts >= maxFailed {
		l.logger.WarnContext(ctx, "rate limit exceeded repeatedly",
			slog.String("key", opts.Key),
			slog.Int("failed_attempts", result.FailedAttempts),
			slog.Int("count", result.Count))
	}
	return result, nil
}

func failedKey(key string) string { return key + ":failed-attempts" }

// record is the window state persisted on the local path.
type record struct {
	Count     int   `json:"count"`
	CreatedAt int64 `json:"createdAt"`
}

// checkLocked runs the window transition in a synchronous critical section
// under the store's per-key lock.
func (l *Limiter) checkLocked(ctx context.Context, key string, maxRequests, window, maxFailed int) (*Result, error) {
	locker, ok := l.store.(cache.Locker)
	if !ok {
		return nil, ErrUnsupportedStore
	}

	var result *Result
	err := locker.WithLock(ctx, key, func(ctx context.Context) error {
		now := time.Now().Unix()
		windowTTL := time.Duration(window) * time.Second
		failedTTL := 2 * windowTTL

		raw, exists, err := l.store.Get(ctx, key)
		if err != nil {
			return err
		}

		if !exists {
			rec := record{Count: 1, CreatedAt: now}
			if err := l.setRecord(ctx, key, rec, windowTTL); err != nil {
				return err
			}
			if err := l.store.Set(ctx, failedKey(key), "0", failedTTL); err != nil {
				return err
			}
			result = &Result{Count: 1, CreatedAt: now, CanContinue: true}
			return nil
		}

		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			// Corrupt record: restart the window rather than fail open forever.
			rec = record{Count: 0, CreatedAt: now}
		}

		rec.Count++
		remaining := time.Duration(rec.CreatedAt+int64(window)-now) * time.Second
		if remaining <= 0 {
			remaining = windowTTL
		}
		if err := l.setRecord(ctx, key, rec, remaining); err != nil {
			return err
		}

		if rec.Count > maxRequests {
			failed, err := l.bumpFailed(ctx, key, maxFailed, failedTTL)
			if err != nil {
				return err
			}
			result = &Result{Count: rec.Count, CreatedAt: rec.CreatedAt, FailedAttempts: failed, CanContinue: false}
			return nil
		}

		failed, err := l.readFailed(ctx, key)
		if err != nil {
			return err
		}
		result = &Result{Count: rec.Count - 1, CreatedAt: rec.CreatedAt, FailedAttempts: failed, CanContinue: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Limiter) setRecord(ctx context.Context, key string, rec record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, key, string(raw), ttl)
}

func (l *Limiter) readFailed(ctx context.Context, key string) (int, error) {
	raw, ok, err := l.store.Get(ctx, failedKey(key))
	if err != nil || !ok {
		return 0, err
	}
	failed, _ := strconv.Atoi(raw)
	return failed, nil
}

// bumpFailed advances the escalation counter and clears it once it reaches
// the threshold, arming the next cycle.
func (l *Limiter) bumpFailed(ctx context.Context, key string, maxFailed int, ttl time.Duration) (int, error) {
	failed, err := l.readFailed(ctx, key)
	if err != nil {
		return 0, err
	}
	failed++

	if failed >= maxFailed {
		if err := l.store.Delete(ctx, failedKey(key)); err != nil {
			return 0, err
		}
		return failed, nil
	}
	if err := l.store.Set(ctx, failedKey(key), strconv.Itoa(failed), ttl); err != nil {
		return 0, err
	}
	return failed, nil
}
