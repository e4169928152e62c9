// Package telemetry owns process-wide tracing setup: building the OTLP
// exporter and tracer provider from configuration, installing the global
// tracer provider and propagator, and shutting everything down exactly once
// on process exit.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/amp-labs/amp-otel/closer"
	"github.com/amp-labs/amp-otel/propagate"
	"github.com/amp-labs/amp-otel/shutdown"
)

var (
	providerMutex  sync.Mutex               //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
	providerCloser io.Closer                //nolint:gochecknoglobals
)

// Initialize sets up OpenTelemetry tracing with the given configuration. The
// global tracer provider and propagator are installed on success. A disabled
// or endpoint-less configuration is not an error; tracing simply stays off.
func Initialize(ctx context.Context, config *Config) error {
	if !config.Enabled {
		slog.Info("OpenTelemetry tracing is disabled")

		return nil
	}

	if config.Endpoint == "" {
		slog.Warn("OpenTelemetry endpoint not configured, tracing will be disabled")

		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	propagator, err := propagate.FromNames(config.Propagators...)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(config.SampleRatio)),
	)

	providerMutex.Lock()
	tracerProvider = provider
	providerCloser = closer.CloseOnce(closer.CustomCloser(func() error {
		return provider.Shutdown(context.Background())
	}))
	providerMutex.Unlock()

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagator)

	// Flush pending spans on process exit.
	shutdown.BeforeShutdown(func() {
		if err := Shutdown(context.Background()); err != nil {
			slog.Warn("tracer provider shutdown failed", "error", err)
		}
	})

	slog.Info("OpenTelemetry tracing initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"endpoint", config.Endpoint,
		"sampleRatio", config.SampleRatio,
	)

	return nil
}

// sampler honors the parent's sampling decision and applies the configured
// ratio to root spans.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}

	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Shutdown gracefully shuts down the OpenTelemetry tracer provider. Safe to
// call multiple times and safe to call when tracing was never initialized.
func Shutdown(ctx context.Context) error {
	providerMutex.Lock()
	once := providerCloser
	providerMutex.Unlock()

	if once == nil {
		return nil
	}

	slog.Info("Shutting down OpenTelemetry tracer provider")

	return once.Close()
}

// ForceFlush exports all ended spans that have not yet been delivered.
// Serverless wrappers call this before the runtime freezes the process.
func ForceFlush(ctx context.Context) error {
	providerMutex.Lock()
	provider := tracerProvider
	providerMutex.Unlock()

	if provider == nil {
		return nil
	}

	return provider.ForceFlush(ctx)
}
