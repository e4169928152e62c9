// Package attrs converts heterogeneous caller values into OpenTelemetry span
// attributes. Every constructor returns a slice so that absent values (nil
// pointers, empty optionals, empty collections) map to an empty slice and are
// simply omitted from the span, never recorded as placeholder values.
//
// Typical usage flattens groups with Collect:
//
//	kvs := attrs.Collect(
//	    attrs.String("db.operation.name", "Query"),
//	    attrs.StringPtr("db.namespace", req.TableName),
//	    attrs.IntPtr("db.limit", req.Limit),
//	)
package attrs

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/amp-labs/amp-otel/optional"
)

// String returns a single string attribute.
func String(key, value string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String(key, value)}
}

// Int returns a single int attribute.
func Int(key string, value int) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int(key, value)}
}

// Int64 returns a single int64 attribute.
func Int64(key string, value int64) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int64(key, value)}
}

// Float returns a single float64 attribute.
func Float(key string, value float64) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Float64(key, value)}
}

// Bool returns a single bool attribute.
func Bool(key string, value bool) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Bool(key, value)}
}

// Strings returns a string-slice attribute, or nothing when the slice is empty.
func Strings(key string, values []string) []attribute.KeyValue {
	if len(values) == 0 {
		return nil
	}

	return []attribute.KeyValue{attribute.StringSlice(key, values)}
}

// StringPtr returns a string attribute, or nothing when the pointer is nil.
func StringPtr(key string, value *string) []attribute.KeyValue {
	if value == nil {
		return nil
	}

	return String(key, *value)
}

// IntPtr returns an int attribute, or nothing when the pointer is nil.
func IntPtr(key string, value *int) []attribute.KeyValue {
	if value == nil {
		return nil
	}

	return Int(key, *value)
}

// Int64Ptr returns an int64 attribute, or nothing when the pointer is nil.
func Int64Ptr(key string, value *int64) []attribute.KeyValue {
	if value == nil {
		return nil
	}

	return Int64(key, *value)
}

// FloatPtr returns a float64 attribute, or nothing when the pointer is nil.
func FloatPtr(key string, value *float64) []attribute.KeyValue {
	if value == nil {
		return nil
	}

	return Float(key, *value)
}

// BoolPtr returns a bool attribute, or nothing when the pointer is nil.
func BoolPtr(key string, value *bool) []attribute.KeyValue {
	if value == nil {
		return nil
	}

	return Bool(key, *value)
}

// Scalar is the set of value types an attribute payload can hold directly.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Opt returns a single attribute when the optional holds a value, or nothing
// when it is empty.
func Opt[T Scalar](key string, value optional.Value[T]) []attribute.KeyValue {
	inner, ok := value.Get()
	if !ok {
		return nil
	}

	switch v := any(inner).(type) {
	case string:
		return String(key, v)
	case int:
		return Int(key, v)
	case int64:
		return Int64(key, v)
	case float64:
		return Float(key, v)
	case bool:
		return Bool(key, v)
	default:
		// Named types land here; attribute.KeyValue has no reflection-free
		// path for them, so they are omitted like any other absent value.
		return nil
	}
}

// Collect flattens attribute groups into a single slice, preserving order and
// skipping empty groups. The result is never nil.
func Collect(groups ...[]attribute.KeyValue) []attribute.KeyValue {
	total := 0
	for _, group := range groups {
		total += len(group)
	}

	out := make([]attribute.KeyValue, 0, total)
	for _, group := range groups {
		out = append(out, group...)
	}

	return out
}
