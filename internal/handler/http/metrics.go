package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"articles-api/internal/handler/http/pathutil"
	"articles-api/internal/handler/http/responsewriter"
	"articles-api/internal/observability/metrics"
	"articles-api/internal/observability/slo"
)

// MetricsMiddleware records HTTP request metrics including duration, size, and status codes.
// Every request also feeds the SLO tracker.
// Paths are normalized (/articles/123 -> /articles/:id) to keep label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			elapsed,
			rw.BytesWritten(),
		)
		slo.Default.Observe(rw.StatusCode(), elapsed)
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
