package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrInvalidConnectionString is returned when the DSN cannot be parsed.
	ErrInvalidConnectionString = errors.New("pg: invalid connection string")
	// ErrNotReady is returned when the database stays unreachable across
	// all retry attempts.
	ErrNotReady = errors.New("pg: database did not become ready")
)

// Connect creates a pgx connection pool and verifies connectivity,
// retrying with a fixed interval up to the configured number of attempts.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionString, err)
	}

	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MinIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = pool.Ping(ctx); lastErr == nil {
			return pool, nil
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("%w: %v", ErrNotReady, lastErr)
}

// Healthcheck returns a probe function validating database connectivity.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
