package instrument

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Outcome is the span-visible summary of a completed operation: a status
// code, an optional description (conventionally set only on error), and
// output attributes recorded just before the span ends.
type Outcome struct {
	Code        codes.Code
	Description string
	Attributes  []attribute.KeyValue
}

// Ok builds a successful outcome carrying the given output attributes.
func Ok(kvs ...attribute.KeyValue) Outcome {
	return Outcome{Code: codes.Ok, Attributes: kvs}
}

// Error builds a failed outcome with a description and output attributes.
func Error(description string, kvs ...attribute.KeyValue) Outcome {
	return Outcome{Code: codes.Error, Description: description, Attributes: kvs}
}

// Classifier maps an operation's terminal result to an Outcome. It is
// supplied per call site, must be pure, and must not panic. Exactly one of
// value and err is meaningful, following Go's (value, error) convention.
type Classifier[T any] func(value T, err error) Outcome

// ByError is the default classifier: any error yields an error status with
// the error's message as description, everything else yields ok. The value
// is ignored.
func ByError[T any](_ T, err error) Outcome {
	if err != nil {
		return Outcome{Code: codes.Error, Description: err.Error()}
	}

	return Outcome{Code: codes.Ok}
}

// Unset leaves the span status unset regardless of the result. Useful when
// a downstream consumer of the trace decides success on its own terms.
func Unset[T any](_ T, _ error) Outcome {
	return Outcome{Code: codes.Unset}
}
