// Package metrics provides Prometheus metrics registry and recording utilities.
//
// All metrics are registered with the default registry through promauto and
// exposed via the /metrics endpoint:
//   - HTTP request metrics (count, duration, response size, rate limiting)
//   - Article service metrics (mutations, operation latency)
//   - Cache metrics (lookups by result, tag flushes)
//   - Database metrics (query latency, pool gauges)
package metrics
