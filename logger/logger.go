// Package logger configures the process-wide slog logger and enriches log
// records with telemetry context: the active span's trace and span ids, the
// subsystem name, the pod name, and any values attached to the context.
// Records can optionally be bridged to an OTLP collector alongside the
// console output.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/amp-labs/amp-otel/closer"
	"github.com/amp-labs/amp-otel/envutil"
	"github.com/amp-labs/amp-otel/errors"
	"github.com/amp-labs/amp-otel/lazy"
	"github.com/amp-labs/amp-otel/shutdown"
)

// Default name of the subsystem emitting logs, settable once at configure
// time and overridable per context. Using atomic.Value to ensure thread-safe
// reads and writes.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex protects concurrent calls to ConfigureLoggingWithOptions.
// This is necessary because the function modifies global state
// (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// Fatal logs an error message and exits the application.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	shutdown.Shutdown()

	time.Sleep(time.Second)

	os.Exit(1)
}

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer

	// OTLP additionally bridges records to an OTLP log collector. The
	// endpoint follows the OTEL_EXPORTER_OTLP_LOGS_* environment variables.
	OTLP bool
}

// ConfigureLoggingWithOptions configures logging for the application.
// It returns the default logger.
// This function is thread-safe but modifies global state, so concurrent
// calls will be serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	if opts.OTLP {
		if otelHandler := newOTelHandler(opts.Subsystem); otelHandler != nil {
			handler = newFanoutHandler(handler, otelHandler)
		}
	}

	// Unpack attributes attached to errors via AnnotateError, then stamp
	// trace and span ids from the record's context.
	handler = &errorAttrHandler{inner: handler}
	handler = &spanContextHandler{inner: handler}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Set up the legacy logger (we won't be using this directly, but 3rd
	// party packages might)
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// newOTelHandler builds a slog handler that exports records over OTLP.
// Exporter construction failures degrade to console-only logging, they are
// never surfaced to the caller.
func newOTelHandler(name string) slog.Handler {
	exporter, err := otlploghttp.New(context.Background())
	if err != nil {
		slog.Warn("OTLP log exporter unavailable, console logging only", "error", err)

		return nil
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	providerShutdown := closer.CloseOnce(closer.CustomCloser(func() error {
		return provider.Shutdown(context.Background())
	}))

	shutdown.BeforeShutdown(func() {
		if err := providerShutdown.Close(); err != nil {
			slog.Warn("log provider shutdown failed", "error", err)
		}
	})

	return otelslog.NewHandler(name, otelslog.WithLoggerProvider(provider))
}

// Option is a functional option for configuring logging via ConfigureLogging.
type Option func(*Options)

// WithOTLP enables bridging log records to an OTLP collector.
func WithOTLP() Option {
	return func(opts *Options) {
		opts.OTLP = true
	}
}

// ConfigureLogging configures logging for the application from the
// environment. It returns the default logger.
func ConfigureLogging(app string, opts ...Option) *slog.Logger {
	// Default log format is text
	logJSON := envutil.Bool("LOG_JSON", envutil.Default(false)).ValueOrFatal()

	// Default log level is info
	minLevel := slogLevel("LOG_LEVEL", slog.LevelInfo)

	// If any packages use the old log package, we'll need to configure that
	// as well (redirected in to slog). Since the old log package doesn't
	// support levels, we have to tell it what level to use.
	legacyLevel := slogLevel("LEGACY_LOG_LEVEL", slog.LevelInfo)

	output := envutil.Map(envutil.String("LOG_OUTPUT"), func(outName string) (*os.File, error) {
		switch outName {
		case "stdout":
			return os.Stdout, nil
		case "stderr":
			return os.Stderr, nil
		default:
			return nil, fmt.Errorf("%w: %q", errors.ErrInvalidLogOutput, outName)
		}
	}).WithDefault(os.Stdout).ValueOrFatal()

	otlp := envutil.Bool("LOG_OTLP", envutil.Default(false)).ValueOrFatal()

	options := Options{
		Subsystem:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
		OTLP:        otlp,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// slogLevel reads a slog.Level from the environment ("debug", "info",
// "warn", "error").
func slogLevel(key string, dfl slog.Level) slog.Level {
	return envutil.Map(envutil.String(key), func(s string) (slog.Level, error) {
		var level slog.Level
		err := level.UnmarshalText([]byte(s))

		return level, err
	}).WithDefault(dfl).ValueOrFatal()
}

// hostname will hold, in a k8s deployment context, the pod name.
// For local development it will be the local machine name.
// nolint:gochecknoglobals
var hostname = lazy.New[string](func() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// GetPodName returns the pod name (or hostname if not running in k8s).
func GetPodName() string {
	return hostname.Get()
}

// getRealContext extracts the first non-nil context from a variadic list.
// If no context is provided or all are nil, it returns context.Background().
func getRealContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// getBaseLogger returns a logger with the subsystem and pod name already set.
func getBaseLogger(ctx context.Context) *slog.Logger {
	// If the logger is muted, we still return a logger,
	// but the logger is incapable of outputting anything.
	if isMuted(ctx) {
		return nullLogger
	}

	logger := slog.Default()

	logger = logger.With(
		"subsystem", GetSubsystem(ctx),
		"pod", hostname.Get())

	requestId, found := GetRequestId(ctx)
	if found {
		logger = logger.With("request-id", requestId)
	}

	// Check for key-values to add to the logger.
	vals := getValues(ctx)
	if vals != nil {
		logger = logger.With(vals...)
	}

	return logger
}

// Get returns a logger enriched from the context: subsystem, pod name,
// request id, and any values attached via With. Trace and span ids are added
// by the handler at emit time from the context passed to the log call, not
// here.
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := getRealContext(ctx...)

	return getBaseLogger(realCtx)
}
