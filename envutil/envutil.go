// Package envutil provides typed, composable readers for environment
// variables. Values are wrapped in a Reader that tracks presence and parse
// errors, so callers can choose between defaults, hard failures, or silent
// fallbacks at the call site.
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// get returns a Reader for the given environment variable key.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// Option transforms a Reader, e.g. by applying a default or a validation.
type Option[T any] func(Reader[T]) Reader[T]

// Default returns an Option that applies a fallback value when the variable is missing.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Validate returns an Option that applies a validation function to a present value.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		if rdr.present && rdr.err == nil {
			rdr.err = f(rdr.value)
		}

		return rdr
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// Bool returns a Reader for a boolean environment variable.
// Accepts the forms understood by strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), strconv.ParseBool), opts)
}

// Int returns a Reader for an integer environment variable.
func Int(key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(key), strconv.Atoi), opts)
}

// Float returns a Reader for a float64 environment variable.
func Float(key string, opts ...Option[float64]) Reader[float64] {
	return apply(Map(get(key), func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}), opts)
}

// Duration returns a Reader for a time.Duration environment variable.
// Accepts Go duration syntax ("5s", "1m30s") as well as bare integers,
// which are interpreted as milliseconds (OTLP env convention).
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(key), func(s string) (time.Duration, error) {
		if millis, err := strconv.Atoi(s); err == nil {
			return time.Duration(millis) * time.Millisecond, nil
		}

		return time.ParseDuration(s)
	}), opts)
}

// StringList returns a Reader for a comma-separated list environment variable.
// Entries are trimmed of whitespace; empty entries are dropped.
func StringList(key string, opts ...Option[[]string]) Reader[[]string] {
	return apply(Map(get(key), func(s string) ([]string, error) {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))

		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}

		return out, nil
	}), opts)
}
