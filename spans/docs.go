// Package spans builds and manages OpenTelemetry span lifecycles.
//
// A Builder describes a prospective span (name, kind, initial attributes,
// optional explicit parent) without starting it. Calling Start binds the
// description to the caller's ambient context at that moment and returns an
// Active handle that owns exactly one underlying span. Active guarantees the
// span ends exactly once, even when End is reached from multiple paths
// (success, failure, cancellation), and turns every post-end operation into a
// silent no-op so telemetry bookkeeping can never disturb caller control flow.
//
// Builders are cheap value descriptions: Start may be called any number of
// times on the same builder, and each call produces an independent span. The
// ambient parent is resolved at Start time, not at Describe time, so builders
// can be constructed ahead of the point where the operation is scheduled.
//
// Usage:
//
//	active := spans.Describe("GET /health", trace.SpanKindServer).
//	    Attribute(attribute.String("http.route", "/health")).
//	    Start(ctx)
//	defer active.Abandon()
//
//	// ... do the work ...
//
//	active.End(codes.Ok, "")
package spans
