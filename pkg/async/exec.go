package async

import (
	"context"
	"time"
)

// ExecFuture represents an asynchronous computation that only returns an
// error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await blocks until the computation completes and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits for completion up to the given duration,
// returning ErrTimeout when it elapses first.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// Exec runs fn(ctx, param) in a goroutine and returns its future.
// A pre-cancelled context short-circuits without spawning work.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for every future and returns the first error encountered,
// in argument order.
func ExecAll(futures ...*ExecFuture) error {
	var first error
	for _, future := range futures {
		if err := future.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
