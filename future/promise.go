package future

import (
	"go.uber.org/atomic"
)

// Promise represents the write-only side of an asynchronous computation.
//
// A Promise is used to complete a Future by providing either a successful value
// or an error. It's the "producer" side while Future is the "consumer" side.
//
// Key guarantees:
//   - A promise can only be fulfilled once (enforced by sync.Once in the future)
//   - Multiple calls to Success/Failure/Complete are safe (later calls are ignored)
//   - Fulfillment is thread-safe and can happen from any goroutine
//   - Fulfilling a promise unblocks all goroutines waiting on the associated future
//
// Design note: The promise holds a reference to the future, not the other way around.
// This ensures futures can be passed around without exposing the ability to complete them.
type Promise[T any] struct {
	future   *Future[T]
	canceled *atomic.Bool

	// cancelFuncs is guarded by future.mu.
	cancelFuncs []func()
}

// IsCancelled returns true if the promise has been canceled.
// Once a promise is canceled, it remains canceled permanently.
func (p *Promise[T]) IsCancelled() bool {
	return p.canceled.Load()
}

// OnCancel registers a function to run when the future is cancelled. If the
// promise is already cancelled, the function runs immediately. Cancel hooks
// run at most once, synchronously with the cancelling call.
func (p *Promise[T]) OnCancel(cancelFn func()) {
	if cancelFn == nil {
		return
	}

	p.future.mu.Lock()

	if !p.canceled.Load() {
		p.cancelFuncs = append(p.cancelFuncs, cancelFn)
		p.future.mu.Unlock()

		return
	}

	p.future.mu.Unlock()
	cancelFn()
}

// cancel marks the promise as canceled and executes all registered cancel
// functions. Uses atomic compare-and-swap so the functions run only once,
// even when cancel() is called concurrently.
func (p *Promise[T]) cancel() {
	if !p.canceled.CompareAndSwap(false, true) {
		return
	}

	p.future.mu.Lock()
	cancelFuncs := p.cancelFuncs
	p.cancelFuncs = nil
	p.future.mu.Unlock()

	for _, cancelFn := range cancelFuncs {
		cancelFn()
	}
}

// fulfill is the internal method that actually completes the promise.
//
// Thread safety is provided by sync.Once, which ensures only the first call
// succeeds. The channel close is a broadcast: all waiters unblock together.
// Callbacks are collected under the mutex so registrations racing with
// fulfillment either land in the pending lists or observe completion and
// fire immediately, never both.
func (p *Promise[T]) fulfill(result Result[T]) {
	p.future.once.Do(func() {
		p.future.result = result

		p.future.mu.Lock()

		close(p.future.resultReady)

		successCallbacks := p.future.successCallbacks
		errorCallbacks := p.future.errorCallbacks
		resultCallbacks := p.future.resultCallbacks

		// Ensure that callbacks only get called once.
		// Also allows GC to do its thing after being called.
		p.future.successCallbacks = nil
		p.future.errorCallbacks = nil
		p.future.resultCallbacks = nil

		p.future.mu.Unlock()

		for _, callback := range resultCallbacks {
			invokeCallback("OnResult", callback, result)
		}

		if result.IsSuccess() {
			for _, callback := range successCallbacks {
				invokeCallback("OnSuccess", callback, result.Value)
			}
		} else {
			for _, callback := range errorCallbacks {
				invokeCallback("OnError", callback, result.Err)
			}
		}
	})
}

// Success fulfills the promise with a successful value.
//
// Thread safety: Safe to call from any goroutine. If called multiple times,
// only the first call takes effect.
func (p *Promise[T]) Success(value T) {
	p.fulfill(Result[T]{Value: value})
}

// Failure fulfills the promise with an error.
//
// Thread safety: Safe to call from any goroutine. If called multiple times,
// only the first call takes effect.
func (p *Promise[T]) Failure(err error) {
	p.fulfill(Result[T]{Err: err})
}

// Complete fulfills the promise with a value and error pair, matching Go's
// standard (value, error) return pattern. If err != nil the value is ignored.
//
// Thread safety: Safe to call from any goroutine. If called multiple times,
// only the first call takes effect.
func (p *Promise[T]) Complete(value T, err error) {
	if err != nil {
		p.Failure(err)
	} else {
		p.Success(value)
	}
}
