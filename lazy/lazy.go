// Package lazy provides values that are initialized at most once, on first
// access.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Of is a lazy value that is initialized at most once.
type Of[T any] struct {
	create      func() T
	once        sync.Once
	value       T
	initialized atomic.Bool
}

// New creates a new lazy value. The callback runs later, when the value is
// first accessed.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}

// Get returns the value, initializing it if necessary. A panicking
// initializer leaves the value uninitialized so the next Get retries.
func (t *Of[T]) Get() T { //nolint:ireturn
	defer func() {
		if err := recover(); err != nil {
			t.once = sync.Once{}

			panic(err)
		}
	}()

	t.once.Do(func() {
		if t.create != nil {
			t.value = t.create()
			t.initialized.Store(true)
			t.create = nil
		}
	})

	return t.value
}

// Set overrides the value without running the initializer.
func (t *Of[T]) Set(value T) {
	t.create = nil
	t.value = value
	t.initialized.Store(true)
}

// Initialized returns true if the value has been initialized. Meant for
// tests and debugging, not normal code flow.
func (t *Of[T]) Initialized() bool {
	return t.initialized.Load()
}

// OfErr is a lazy value whose initializer can fail. Errors are not memoized;
// a failed initialization is retried on the next Get.
type OfErr[T any] struct {
	create func() (T, error)
	value  T

	done atomic.Bool
	mu   sync.Mutex
}

// NewErr creates a new lazy value with a fallible initializer.
func NewErr[T any](f func() (T, error)) *OfErr[T] {
	return &OfErr[T]{create: f}
}

// Get returns the value, initializing it if necessary. If the initializer
// returns an error, Get returns it and the initializer runs again on the
// next call.
func (t *OfErr[T]) Get() (T, error) { //nolint:ireturn
	if t.done.Load() {
		return t.value, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done.Load() {
		return t.value, nil
	}

	value, err := t.create()
	if err != nil {
		var zero T

		return zero, err
	}

	t.value = value
	t.create = nil
	t.done.Store(true)

	return t.value, nil
}

// Set overrides the value without running the initializer.
func (t *OfErr[T]) Set(value T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.create = nil
	t.value = value
	t.done.Store(true)
}

// Initialized returns true if the value has been initialized.
func (t *OfErr[T]) Initialized() bool {
	return t.done.Load()
}
