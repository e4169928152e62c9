package propagate

import (
	"fmt"

	"github.com/amp-labs/amp-otel/envutil"
	"github.com/amp-labs/amp-otel/errors"
)

// Propagator names accepted in OTEL_PROPAGATORS, matching the OpenTelemetry
// SDK environment-variable convention.
const (
	NameTraceContext = "tracecontext"
	NameBaggage      = "baggage"
	NameB3           = "b3"
	NameB3Multi      = "b3multi"
	NameXRay         = "xray"
	NameNone         = "none"
)

var defaultPropagators = []string{NameTraceContext, NameBaggage}

// ByName returns the format registered under the given OTEL_PROPAGATORS
// name, or errors.ErrUnknownPropagator for a name this package does not
// recognize.
func ByName(name string) (Format, error) {
	switch name {
	case NameTraceContext:
		return TraceContext(), nil
	case NameBaggage:
		return Baggage(), nil
	case NameB3:
		return B3Single(), nil
	case NameB3Multi:
		return B3Multi(), nil
	case NameXRay:
		return XRay(), nil
	case NameNone:
		return None(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownPropagator, name)
	}
}

// FromNames composes the named formats in priority order. The first name is
// also the only format used for injection; every name participates in
// extraction. A single name yields a plain symmetric format.
func FromNames(names ...string) (Format, error) {
	if len(names) == 0 {
		names = defaultPropagators
	}

	formats := make([]Format, 0, len(names))

	for _, name := range names {
		format, err := ByName(name)
		if err != nil {
			return nil, err
		}

		formats = append(formats, format)
	}

	if len(formats) == 1 {
		return formats[0], nil
	}

	return Split(Chain(formats...), formats[0]), nil
}

// FromEnv builds the process propagator from the OTEL_PROPAGATORS
// environment variable, a comma-separated list of format names. Unset
// defaults to "tracecontext,baggage". Unknown names fail here, at setup
// time, never on the request path.
func FromEnv() (Format, error) {
	names, err := envutil.StringList("OTEL_PROPAGATORS",
		envutil.Default(defaultPropagators)).Value()
	if err != nil {
		return nil, err
	}

	return FromNames(names...)
}
