// Package instrument binds a span's lifetime to the lifetime of an
// asynchronous unit of work. An Operation covers a single call: the span
// starts when the call starts, the call's result is classified into a span
// status and output attributes, and the span ends exactly once. A Stream
// covers a whole multi-item sequence with one span.
//
// Instrumentation is transparent to the wrapped code. Results and errors
// pass through bit for bit, and telemetry failures never reach the caller.
package instrument
