package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Article and cache metrics
var (
	// ArticleMutationsTotal counts create/update/destroy calls by outcome
	ArticleMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_mutations_total",
			Help: "Total number of article mutations",
		},
		[]string{"operation", "result"}, // result: success, not_found, error
	)

	// ArticleOperationDuration measures service operation latency
	ArticleOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "article_operation_duration_seconds",
			Help:    "Duration of article service operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation"},
	)

	// CacheRequestsTotal counts read-through lookups by tag and result
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"tag", "result"}, // result: hit, miss, error
	)

	// CacheFlushesTotal counts tag group invalidations
	CacheFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_flushes_total",
			Help: "Total number of cache tag flushes",
		},
		[]string{"tag", "result"}, // result: success, error
	)
)

// Mutation outcomes
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Cache lookup outcomes
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordArticleMutation records one service mutation and its duration.
func RecordArticleMutation(operation, result string, duration time.Duration) {
	ArticleMutationsTotal.WithLabelValues(operation, result).Inc()
	ArticleOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordArticleQuery records a read operation duration.
func RecordArticleQuery(operation string, duration time.Duration) {
	ArticleOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit, miss or error for a tag.
func RecordCacheLookup(tag, result string) {
	CacheRequestsTotal.WithLabelValues(tag, result).Inc()
}

// RecordCacheFlush records a tag flush.
func RecordCacheFlush(tag string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	CacheFlushesTotal.WithLabelValues(tag, result).Inc()
}
