// Package future provides a generic Future/Promise pair for asynchronous
// computations. A Future is the read side: callers await or register
// callbacks for a result that arrives later. The Promise is the write side:
// whoever runs the computation fulfills it exactly once.
//
// Futures also support cooperative cancellation. Cancel hooks registered on
// the promise run exactly once when the future is cancelled, which is how
// instrumentation binds span cleanup to abandoned operations.
package future

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Result holds the terminal outcome of an asynchronous computation: a value
// and an error, exactly one of which is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// IsSuccess returns true when the result carries no error.
func (r Result[T]) IsSuccess() bool {
	return r.Err == nil
}

// Get unpacks the result into Go's conventional (value, error) pair.
func (r Result[T]) Get() (T, error) {
	if r.Err != nil {
		var zero T

		return zero, r.Err
	}

	return r.Value, nil
}

// Future represents the read-only side of an asynchronous computation.
//
// Key guarantees:
//   - Fulfillment happens at most once (enforced by sync.Once)
//   - All waiters are unblocked simultaneously when the result arrives
//   - Callbacks registered after fulfillment fire immediately
//   - Cancellation is idempotent and observable through IsCancelled
type Future[T any] struct {
	once        sync.Once
	resultReady chan struct{}
	result      Result[T]

	mu               sync.Mutex
	successCallbacks []func(T)
	errorCallbacks   []func(error)
	resultCallbacks  []func(Result[T])

	promise *Promise[T]
}

// New creates an unfulfilled Future and the Promise that completes it.
func New[T any]() (*Future[T], *Promise[T]) {
	fut := &Future[T]{
		resultReady: make(chan struct{}),
	}
	promise := &Promise[T]{
		future:   fut,
		canceled: atomic.NewBool(false),
	}
	fut.promise = promise

	return fut, promise
}

// Await blocks until the future is fulfilled and returns its result.
func (f *Future[T]) Await() (T, error) {
	<-f.resultReady

	return f.result.Get()
}

// AwaitContext blocks until the future is fulfilled or the context is done.
// On context expiry the context error is returned and the future is left
// untouched; the computation may still complete later.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.resultReady:
		return f.result.Get()
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed when the future is fulfilled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.resultReady
}

// IsCompleted returns true if the future has been fulfilled.
func (f *Future[T]) IsCompleted() bool {
	select {
	case <-f.resultReady:
		return true
	default:
		return false
	}
}

// Result returns the result and true if the future is fulfilled, or the zero
// result and false if it is still pending.
func (f *Future[T]) Result() (Result[T], bool) {
	if f.IsCompleted() {
		return f.result, true
	}

	return Result[T]{}, false
}

// Cancel cancels the future: registered cancel hooks run exactly once, and
// the future is fulfilled with context.Canceled so waiters unblock. If the
// future is already fulfilled, only the cancelled flag is affected.
func (f *Future[T]) Cancel() {
	f.promise.cancel()
	f.promise.Failure(context.Canceled)
}

// IsCancelled returns true if Cancel was called on the future.
func (f *Future[T]) IsCancelled() bool {
	return f.promise.IsCancelled()
}

// OnSuccess registers a callback invoked with the value when the future
// succeeds. If the future already succeeded, the callback fires immediately.
// Callbacks run in their own goroutine with panic recovery.
func (f *Future[T]) OnSuccess(callback func(T)) {
	f.mu.Lock()

	if !f.IsCompleted() {
		f.successCallbacks = append(f.successCallbacks, callback)
		f.mu.Unlock()

		return
	}

	f.mu.Unlock()

	if f.result.IsSuccess() {
		invokeCallback("OnSuccess", callback, f.result.Value)
	}
}

// OnError registers a callback invoked with the error when the future fails.
// If the future already failed, the callback fires immediately.
func (f *Future[T]) OnError(callback func(error)) {
	f.mu.Lock()

	if !f.IsCompleted() {
		f.errorCallbacks = append(f.errorCallbacks, callback)
		f.mu.Unlock()

		return
	}

	f.mu.Unlock()

	if !f.result.IsSuccess() {
		invokeCallback("OnError", callback, f.result.Err)
	}
}

// OnResult registers a callback invoked with the terminal result, whether
// success or failure. If the future is already fulfilled, the callback fires
// immediately.
func (f *Future[T]) OnResult(callback func(Result[T])) {
	f.mu.Lock()

	if !f.IsCompleted() {
		f.resultCallbacks = append(f.resultCallbacks, callback)
		f.mu.Unlock()

		return
	}

	f.mu.Unlock()

	invokeCallback("OnResult", callback, f.result)
}
