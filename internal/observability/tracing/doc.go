// Package tracing provides OpenTelemetry tracing integration.
//
// NewProvider installs an SDK tracer provider and the W3C propagators;
// Middleware opens one server span per HTTP request and the service layer
// opens child spans through StartSpan.
package tracing
