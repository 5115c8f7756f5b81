// Package middleware provides observability hooks for a routing engine.
//
// Both hooks subscribe to the engine's navigation stream and follow each
// navigation from start to resolved outcome:
//
//	middleware.Observe(engine)                    // Prometheus metrics
//	middleware.Trace(engine)                      // OpenTelemetry spans
//
// Observe registers Prometheus collectors for navigation counts, veto
// counts, duration, and active chain depth. Trace opens one span per
// navigation against the global tracer provider.
package middleware
