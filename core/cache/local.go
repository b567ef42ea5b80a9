package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Local is the in-process Store: a bounded LRU map with per-entry
// expiration and a per-key lock registry. Expired entries are dropped
// lazily on read and swept by the optional background cleanup.
type Local struct {
	entries *lru.Cache[string, entry]
	locks   sync.Map // key -> *sync.Mutex

	cleanupInterval time.Duration
	logger          *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// LocalOption configures a Local store.
type LocalOption func(*localConfig)

type localConfig struct {
	capacity        int
	cleanupInterval time.Duration
	logger          *slog.Logger
}

// WithCapacity bounds the number of resident entries.
func WithCapacity(n int) LocalOption {
	return func(c *localConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept.
// Set to 0 to disable the background sweep.
func WithCleanupInterval(interval time.Duration) LocalOption {
	return func(c *localConfig) {
		c.cleanupInterval = interval
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(logger *slog.Logger) LocalOption {
	return func(c *localConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewLocal creates an in-process store. Call Start to begin the background
// sweep, or rely on lazy expiry alone.
func NewLocal(opts ...LocalOption) *Local {
	cfg := localConfig{
		capacity:        16384,
		cleanupInterval: 5 * time.Minute,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	entries, _ := lru.New[string, entry](cfg.capacity)
	return &Local{
		entries:         entries,
		cleanupInterval: cfg.cleanupInterval,
		logger:          cfg.logger,
	}
}

func (l *Local) Get(ctx context.Context, key string) (string, bool, error) {
	e, ok := l.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	if e.expired(time.Now()) {
		l.entries.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (l *Local) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	l.entries.Add(key, e)
	return nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	l.entries.Remove(key)
	return nil
}

func (l *Local) Clear(ctx context.Context) error {
	l.entries.Purge()
	return nil
}

// Shared reports false: the store is process-local.
func (l *Local) Shared() bool { return false }

// WithLock serializes callers on a per-key mutex.
func (l *Local) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	muAny, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)

	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

// Start begins the background sweep. Blocks until the context is cancelled
// or Stop is called; run it in a goroutine.
func (l *Local) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return fmt.Errorf("local cache already started")
	}
	if l.cleanupInterval <= 0 {
		l.mu.Unlock()
		return fmt.Errorf("cleanup interval must be > 0, got %v", l.cleanupInterval)
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "local cache sweep started",
		slog.Duration("cleanup_interval", l.cleanupInterval))

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.wg.Add(1)
			l.removeExpired()
			l.wg.Done()
		}
	}
}

// Stop cancels the background sweep and waits for an in-progress pass.
func (l *Local) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

func (l *Local) removeExpired() {
	now := time.Now()
	for _, key := range l.entries.Keys() {
		if e, ok := l.entries.Peek(key); ok && e.expired(now) {
			l.entries.Remove(key)
		}
	}
}
