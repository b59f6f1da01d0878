package slo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the articles API.
const (
	// AvailabilitySLO is the target share of non-5xx responses, in percent.
	AvailabilitySLO = 99.9

	// LatencyP95SLO is the p95 latency target in seconds.
	LatencyP95SLO = 0.200

	// LatencyP99SLO is the p99 latency target in seconds.
	LatencyP99SLO = 0.500

	// ErrorRateSLO is the maximum 5xx ratio.
	ErrorRateSLO = 0.001
)

// maxSamples bounds the latency samples kept per window.
const maxSamples = 4096

// SLO gauges. They are recomputed by Tracker.Publish over the requests seen
// since the previous publish.
var (
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current availability ratio (0-1), target: 0.999",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "Current p95 latency in seconds, target: 0.200",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "Current p99 latency in seconds, target: 0.500",
		},
	)

	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current error rate ratio (0-1), target: 0.001",
		},
	)
)

// Snapshot is the SLO state of one window.
type Snapshot struct {
	Requests     int
	ServerErrors int
	Availability float64
	ErrorRate    float64
	LatencyP95   time.Duration
	LatencyP99   time.Duration
}

// MeetsTargets reports whether every measured value is within its target.
func (s Snapshot) MeetsTargets() bool {
	return s.Availability*100 >= AvailabilitySLO &&
		s.ErrorRate <= ErrorRateSLO &&
		s.LatencyP95.Seconds() <= LatencyP95SLO &&
		s.LatencyP99.Seconds() <= LatencyP99SLO
}

// Tracker accumulates request outcomes between publishes.
type Tracker struct {
	mu       sync.Mutex
	requests int
	errors   int
	samples  []time.Duration
	next     int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{samples: make([]time.Duration, 0, 256)}
}

// Default is the process-wide tracker fed by the HTTP metrics middleware.
var Default = NewTracker()

// Observe records one finished request. Once the sample buffer is full the
// oldest latency is overwritten.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests++
	if status >= 500 {
		t.errors++
	}
	if len(t.samples) < maxSamples {
		t.samples = append(t.samples, d)
		return
	}
	t.samples[t.next] = d
	t.next = (t.next + 1) % maxSamples
}

// Snapshot computes the current window without resetting it.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := Snapshot{Requests: t.requests, ServerErrors: t.errors, Availability: 1}
	if t.requests == 0 {
		return s
	}
	s.ErrorRate = float64(t.errors) / float64(t.requests)
	s.Availability = 1 - s.ErrorRate

	sorted := slices.Clone(t.samples)
	slices.Sort(sorted)
	s.LatencyP95 = quantile(sorted, 0.95)
	s.LatencyP99 = quantile(sorted, 0.99)
	return s
}

// Publish writes the window to the SLO gauges and starts a new one.
// An empty window leaves the gauges untouched.
func (t *Tracker) Publish() Snapshot {
	t.mu.Lock()
	s := t.snapshotLocked()
	t.requests, t.errors, t.next = 0, 0, 0
	t.samples = t.samples[:0]
	t.mu.Unlock()

	if s.Requests == 0 {
		return s
	}
	SLOAvailability.Set(s.Availability)
	SLOErrorRate.Set(s.ErrorRate)
	SLOLatencyP95.Set(s.LatencyP95.Seconds())
	SLOLatencyP99.Set(s.LatencyP99.Seconds())
	return s
}

// Run publishes every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Publish()
		}
	}
}

// quantile uses the nearest-rank method on sorted samples.
func quantile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(q*float64(len(sorted))+0.999999) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}
