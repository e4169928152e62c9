package future

import (
	"context"
	"runtime/debug"

	"github.com/amp-labs/amp-otel/errors"
)

// Go runs fn in a new goroutine and returns a Future that completes with its
// result. A panic inside fn fails the future with errors.ErrPanicRecovery
// instead of crashing the process.
func Go[T any](fn func() (T, error)) *Future[T] {
	fut, promise := New[T]()

	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				promise.Failure(errors.FromPanic(recovered, debug.Stack()))
			}
		}()

		promise.Complete(fn())
	}()

	return fut
}

// GoContext runs fn in a new goroutine with a context derived from ctx.
// Cancelling the returned future cancels that context, so a cooperative fn
// can stop early. When ctx itself is cancelled before fn completes, the
// future fails with the context's error.
func GoContext[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	fut, promise := New[T]()

	runCtx, cancel := context.WithCancel(ctx)
	promise.OnCancel(cancel)

	go func() {
		defer cancel()

		defer func() {
			if recovered := recover(); recovered != nil {
				promise.Failure(errors.FromPanic(recovered, debug.Stack()))
			}
		}()

		value, err := fn(runCtx)
		if err == nil && runCtx.Err() != nil {
			err = runCtx.Err()
		}

		promise.Complete(value, err)
	}()

	return fut
}
