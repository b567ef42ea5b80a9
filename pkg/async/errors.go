package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the function does
	// not complete in time.
	ErrTimeout = errors.New("async: await timed out")
)
