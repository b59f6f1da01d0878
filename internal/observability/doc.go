// Package observability groups the logging, metrics and tracing infrastructure.
//
// Subpackages:
//   - logging: slog construction, file rotation and context propagation
//   - metrics: Prometheus collectors for HTTP, articles, cache and database
//   - slo: availability, error rate and latency windows published as gauges
//   - tracing: OpenTelemetry provider setup, HTTP middleware and span helpers
package observability
