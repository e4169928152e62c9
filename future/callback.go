package future

import (
	"log/slog"
	"runtime/debug"

	"github.com/amp-labs/amp-otel/errors"
)

// invokeCallback runs a registered callback in its own goroutine so a slow or
// panicking callback cannot block promise fulfillment or other callbacks.
// Panics are recovered and logged, never propagated.
func invokeCallback[T any](kind string, callback func(T), value T) {
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				err := errors.FromPanic(recovered, debug.Stack())
				slog.Error("future callback panicked",
					"callback", kind,
					"error", err)
			}
		}()

		callback(value)
	}()
}
