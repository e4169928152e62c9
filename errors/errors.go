package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrPanicRecovery wraps values recovered from panics so callers can detect
	// them with errors.Is.
	ErrPanicRecovery = errors.New("recovered from panic")

	// ErrUnknownPropagator is returned when a propagation format name is not
	// recognized (e.g. from OTEL_PROPAGATORS).
	ErrUnknownPropagator = errors.New("unknown propagator")

	// ErrTelemetryDisabled is returned by initialization helpers when telemetry
	// is turned off by configuration.
	ErrTelemetryDisabled = errors.New("telemetry is disabled")

	// ErrInvalidLogOutput is returned when an invalid log output destination
	// is specified.
	ErrInvalidLogOutput = errors.New("invalid log output")
)

// FromPanic converts a recovered panic value and optional stack trace into a
// standard error. If the panic value is nil, it returns nil. Error values are
// wrapped so the original error remains reachable with errors.Is/As; other
// values are formatted as strings.
func FromPanic(recovered any, stack []byte) error {
	if recovered == nil {
		return nil
	}

	if err, ok := recovered.(error); ok {
		if stack != nil {
			return fmt.Errorf("%w: %w\nstack trace:\n%s", ErrPanicRecovery, err, string(stack))
		}

		return fmt.Errorf("%w: %w", ErrPanicRecovery, err)
	}

	if stack != nil {
		return fmt.Errorf("%w: %v\nstack trace:\n%s", ErrPanicRecovery, recovered, string(stack))
	}

	return fmt.Errorf("%w: %v", ErrPanicRecovery, recovered)
}

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It provides methods to add errors, check for errors, and retrieve them as a single combined error.
// Use this when you need to collect errors from multiple operations and return them together.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection, resetting it to an empty state.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
