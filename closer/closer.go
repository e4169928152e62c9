// Package closer provides utilities for managing io.Closer resources.
//
// The package includes:
//   - Closer: A collector that manages multiple io.Closer instances and closes them all at once
//   - CloseOnce: A thread-safe wrapper that ensures an io.Closer is only closed once
//   - CustomCloser: Creates an io.Closer from any cleanup function
package closer

import (
	"io"
	"sync"

	"github.com/amp-labs/amp-otel/errors"
)

// customCloser wraps a function to make it an io.Closer. This allows any
// cleanup logic to be collected and closed alongside real resources.
type customCloser struct {
	closeFn func() error
}

// CustomCloser creates an io.Closer from a cleanup function.
// Returns nil if closeFn is nil.
func CustomCloser(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &customCloser{closeFn: closeFn}
}

func (c *customCloser) Close() error {
	return c.closeFn()
}

// onceCloser wraps an io.Closer so Close is executed at most once.
// Subsequent calls return the result of the first call.
type onceCloser struct {
	inner io.Closer
	once  sync.Once
	err   error
}

// CloseOnce wraps an io.Closer so that Close only runs once, no matter how
// many times or from how many goroutines it is called. Later calls observe
// the first call's error. Returns nil if inner is nil.
func CloseOnce(inner io.Closer) io.Closer {
	if inner == nil {
		return nil
	}

	return &onceCloser{inner: inner}
}

func (c *onceCloser) Close() error {
	c.once.Do(func() {
		c.err = c.inner.Close()
	})

	return c.err
}

// Closer collects multiple io.Closer instances and closes them all at once.
// Closers are closed in reverse registration order (like deferred calls),
// and all errors are combined into a single returned error.
type Closer struct {
	mut     sync.Mutex
	closers []io.Closer
}

// NewCloser creates an empty Closer collector.
func NewCloser() *Closer {
	return &Closer{}
}

// Add registers a closer with the collector. Nil closers are ignored.
func (c *Closer) Add(closer io.Closer) {
	if closer == nil {
		return
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	c.closers = append(c.closers, closer)
}

// AddFunc registers a cleanup function with the collector.
func (c *Closer) AddFunc(closeFn func() error) {
	c.Add(CustomCloser(closeFn))
}

// Close closes all registered closers in reverse order and clears the
// collector. Errors are accumulated and returned as one combined error.
func (c *Closer) Close() error {
	c.mut.Lock()
	closers := c.closers
	c.closers = nil
	c.mut.Unlock()

	var col errors.Collection

	for i := len(closers) - 1; i >= 0; i-- {
		col.Add(closers[i].Close())
	}

	return col.GetError()
}
