package logger

import (
	"context"
	"log/slog"
)

// It's considered good practice to use unexported custom types for context
// keys. This avoids collisions with other packages that might be using the
// same string values for their own keys.
type contextKey string

// WithSubsystem adds a subsystem to the context, overriding the default set
// by ConfigureLogging.
func WithSubsystem(ctx context.Context, sub string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), sub)
}

// GetSubsystem returns the subsystem from the context, falling back to the
// default set by ConfigureLogging.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if sub := ctx.Value(contextKey("subsystem")); sub != nil {
		if val, ok := sub.(string); ok {
			return val
		}
	}

	if defaultSub := subsystem.Load(); defaultSub != nil {
		if val, ok := defaultSub.(string); ok {
			return val
		}
	}

	return ""
}

// WithRequestId adds a request ID to the context.
func WithRequestId(ctx context.Context, requestId string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("request_id"), requestId)
}

// GetRequestId returns the request ID from the context. If the request ID is
// not present, an empty string is returned along with a false value.
func GetRequestId(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	reqId := ctx.Value(contextKey("request_id"))
	if reqId == nil {
		return "", false
	}

	val, ok := reqId.(string)
	if !ok {
		return "", false
	}

	return val, true
}

// WithMuted adds a muted flag to the context. When muted is true, all
// logging on this context is suppressed. Useful for silencing high-frequency
// paths such as health checks.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

// isMuted checks if the context has the muted flag set to true.
func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	val := ctx.Value(contextKey("mute"))
	if val == nil {
		return false
	}

	muted, ok := val.(bool)

	return ok && muted
}

// With returns a new context with the given key-value pairs added. The
// values are attached to every logger obtained from the context via Get.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		// Corner case, don't bother creating a new context.
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

// getValues retrieves logger values from the context that were added via
// With. Returns nil if no values are present.
func getValues(ctx context.Context) []any { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	vals := ctx.Value(contextKey("loggerValues"))
	if vals != nil {
		if val, ok := vals.([]any); ok {
			return val
		}
	}

	return nil
}

// nullHandler is a slog.Handler that discards all log output.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

// nullLogger is returned by Get when the context is muted, so callers can
// log unconditionally without producing output.
var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals
