package telemetry

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amp-labs/amp-otel/envutil"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
	defaultSampleRatio    = 1.0
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string        `yaml:"serviceName"`
	ServiceVersion string        `yaml:"serviceVersion"`
	Environment    string        `yaml:"environment"`
	Endpoint       string        `yaml:"endpoint"`
	Enabled        bool          `yaml:"enabled"`
	Timeout        time.Duration `yaml:"-"`

	// SampleRatio is the fraction of root traces to sample, in [0, 1].
	// Sampling decisions of inbound parents are always honored.
	SampleRatio float64 `yaml:"sampleRatio"`

	// Propagators lists the context propagation formats by their
	// OTEL_PROPAGATORS names. Empty means tracecontext plus baggage.
	Propagators []string `yaml:"propagators"`
}

// UnmarshalYAML decodes a Config, accepting Go duration syntax for the
// timeout field.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plainConfig Config

	var raw struct {
		plainConfig `yaml:",inline"`

		Timeout string `yaml:"timeout"`
	}

	raw.plainConfig = plainConfig(*c)

	if err := value.Decode(&raw); err != nil {
		return err
	}

	timeout := c.Timeout
	*c = Config(raw.plainConfig)
	c.Timeout = timeout

	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}

		c.Timeout = timeout
	}

	return nil
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment
// variables.
func LoadConfigFromEnv(serviceName, runningEnv string) (*Config, error) {
	enabled := envutil.Bool("OTEL_ENABLED",
		envutil.Default(false)).
		ValueOrElse(false)

	// Default to the in-cluster collector service endpoint if running in
	// Kubernetes.
	defaultEndpoint := ""
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		defaultEndpoint = "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318"
	}

	svcName, err := envutil.String("OTEL_SERVICE_NAME", envutil.Default(serviceName)).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.String("OTEL_SERVICE_VERSION",
		envutil.Default(defaultServiceVersion)).
		Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		envutil.Default(defaultEndpoint)).
		Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT",
		envutil.Default(defaultTimeout)).
		Value()
	if err != nil {
		return nil, err
	}

	sampleRatio, err := envutil.Float("OTEL_TRACES_SAMPLER_ARG",
		envutil.Default(defaultSampleRatio),
		envutil.Validate(validSampleRatio)).
		Value()
	if err != nil {
		return nil, err
	}

	propagators, err := envutil.StringList("OTEL_PROPAGATORS",
		envutil.Default[[]string](nil)).
		Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    runningEnv,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Timeout:        timeout,
		SampleRatio:    sampleRatio,
		Propagators:    propagators,
	}, nil
}

// LoadConfigFromFile loads OpenTelemetry configuration from a YAML file.
// Zero-valued fields fall back to the same defaults LoadConfigFromEnv uses.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry config: %w", err)
	}

	config := &Config{
		ServiceVersion: defaultServiceVersion,
		Timeout:        defaultTimeout,
		SampleRatio:    defaultSampleRatio,
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse telemetry config: %w", err)
	}

	if err := validSampleRatio(config.SampleRatio); err != nil {
		return nil, err
	}

	return config, nil
}

var errSampleRatio = errors.New("sample ratio must be in [0, 1]")

func validSampleRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", errSampleRatio, ratio)
	}

	return nil
}
