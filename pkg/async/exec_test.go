package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/pkg/async"
)

func TestExecAndAwait(t *testing.T) {
	t.Parallel()

	f := async.Exec(context.Background(), 41, func(ctx context.Context, n int) error {
		if n != 41 {
			return errors.New("wrong param")
		}
		return nil
	})
	assert.NoError(t, f.Await())
}

func TestExecPropagatesError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	f := async.Exec(context.Background(), struct{}{}, func(context.Context, struct{}) error {
		return sentinel
	})
	assert.ErrorIs(t, f.Await(), sentinel)
}

func TestExecPreCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	f := async.Exec(ctx, struct{}{}, func(context.Context, struct{}) error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, f.Await(), context.Canceled)
	assert.False(t, ran.Load())
}

func TestExecAll(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("second failed")
	var count atomic.Int64

	ok := func(context.Context, int) error { count.Add(1); return nil }
	bad := func(context.Context, int) error { count.Add(1); return sentinel }

	err := async.ExecAll(
		async.Exec(context.Background(), 1, ok),
		async.Exec(context.Background(), 2, bad),
		async.Exec(context.Background(), 3, ok),
	)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, int64(3), count.Load(), "ExecAll must join every future")
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	f := async.Exec(context.Background(), struct{}{}, func(context.Context, struct{}) error {
		time.Sleep(time.Second)
		return nil
	})
	require.ErrorIs(t, f.AwaitWithTimeout(10*time.Millisecond), async.ErrTimeout)
}
