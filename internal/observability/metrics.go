// Package observability exposes the faucet's Prometheus metrics.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// FaucetMetrics groups the collectors recorded by the accept path and the scheduler.
type FaucetMetrics struct {
	claims      *prometheus.CounterVec
	ticks       *prometheus.CounterVec
	submissions *prometheus.CounterVec
	tickLatency prometheus.Histogram
	queueDepth  *prometheus.GaugeVec
	expired     prometheus.Counter
}

var (
	faucetMetricsOnce sync.Once
	faucetRegistry    *FaucetMetrics
)

// Faucet returns the lazily-initialised faucet metrics registry.
func Faucet() *FaucetMetrics {
	faucetMetricsOnce.Do(func() {
		faucetRegistry = newFaucetMetrics()
		prometheus.MustRegister(
			faucetRegistry.claims,
			faucetRegistry.ticks,
			faucetRegistry.submissions,
			faucetRegistry.tickLatency,
			faucetRegistry.queueDepth,
			faucetRegistry.expired,
		)
	})
	return faucetRegistry
}

func newFaucetMetrics() *FaucetMetrics {
	return &FaucetMetrics{
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faucet",
			Subsystem: "claims",
			Name:      "total",
			Help:      "Claims received segmented by outcome and rejection code.",
		}, []string{"outcome", "code"}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faucet",
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Scheduler ticks segmented by result.",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faucet",
			Subsystem: "scheduler",
			Name:      "submissions_total",
			Help:      "Payment submissions segmented by engine result.",
		}, []string{"engine_result"}),
		tickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "faucet",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in a scheduler tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "faucet",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Payout queue size by state.",
		}, []string{"state"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "faucet",
			Subsystem: "queue",
			Name:      "forced_expiry_total",
			Help:      "Queue entries removed by their forced-expiry deadline.",
		}),
	}
}

func (m *FaucetMetrics) ClaimAccepted() {
	if m == nil {
		return
	}
	m.claims.WithLabelValues("accepted", "").Inc()
}

// ClaimRejected records a refused claim. Codes should be the stable error codes
// returned to callers so dashboards line up with API responses.
func (m *FaucetMetrics) ClaimRejected(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unspecified"
	}
	m.claims.WithLabelValues("rejected", code).Inc()
}

func (m *FaucetMetrics) TickCompleted(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues("completed").Inc()
	m.tickLatency.Observe(seconds)
}

func (m *FaucetMetrics) TickSkipped() {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues("skipped").Inc()
}

func (m *FaucetMetrics) TickAborted(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unspecified"
	}
	m.ticks.WithLabelValues("aborted_" + reason).Inc()
}

func (m *FaucetMetrics) Submission(engineResult string) {
	if m == nil {
		return
	}
	if engineResult == "" {
		engineResult = "none"
	}
	m.submissions.WithLabelValues(engineResult).Inc()
}

func (m *FaucetMetrics) QueueDepth(eligible, processing int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues("eligible").Set(float64(eligible))
	m.queueDepth.WithLabelValues("processing").Set(float64(processing))
}

func (m *FaucetMetrics) ForcedExpiry() {
	if m == nil {
		return
	}
	m.expired.Inc()
}
