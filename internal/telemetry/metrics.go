// Package telemetry exposes the engine's runtime health as Prometheus
// metrics: a private registry owned by one Metrics instance, grouped
// the way the reference collector groups simulated readings, but
// backed by real prometheus.Counter/Histogram/Gauge instruments.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the process-wide instrument set. Nil-safe methods let
// callers hold a *Metrics that might be nil in tests without guarding
// every call site.
type Metrics struct {
	registry *prometheus.Registry

	SamplesIngested   *prometheus.CounterVec
	IngestionFailures *prometheus.CounterVec

	DetectorScoreLatency prometheus.Histogram
	BaselineBuildLatency prometheus.Histogram

	EventsEmitted *prometheus.CounterVec

	StoreWriteFailures *prometheus.CounterVec
	CircuitBreakerOpen *prometheus.GaugeVec

	AssetsTracked prometheus.Gauge
}

// New builds a Metrics instance registered against a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		SamplesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmctl",
			Subsystem: "ingestion",
			Name:      "samples_total",
			Help:      "Samples accepted per asset.",
		}, []string{"asset_id"}),
		IngestionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmctl",
			Subsystem: "ingestion",
			Name:      "failures_total",
			Help:      "Samples rejected per asset, by reason.",
		}, []string{"asset_id", "reason"}),
		DetectorScoreLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pmctl",
			Subsystem: "detector",
			Name:      "score_latency_seconds",
			Help:      "Wall time to score one window against a trained detector.",
			Buckets:   prometheus.DefBuckets,
		}),
		BaselineBuildLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pmctl",
			Subsystem: "baseline",
			Name:      "build_latency_seconds",
			Help:      "Wall time to build a baseline profile from a calibration window.",
			Buckets:   prometheus.DefBuckets,
		}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmctl",
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Transition events emitted, by asset and event type.",
		}, []string{"asset_id", "event_type"}),
		StoreWriteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmctl",
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Persistence write failures, by asset.",
		}, []string{"asset_id"}),
		CircuitBreakerOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pmctl",
			Subsystem: "store",
			Name:      "circuit_breaker_open",
			Help:      "1 if the named circuit breaker is open, else 0.",
		}, []string{"name"}),
		AssetsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pmctl",
			Subsystem: "state",
			Name:      "assets_tracked",
			Help:      "Distinct assets currently held in the state store.",
		}),
	}

	reg.MustRegister(
		m.SamplesIngested,
		m.IngestionFailures,
		m.DetectorScoreLatency,
		m.BaselineBuildLatency,
		m.EventsEmitted,
		m.StoreWriteFailures,
		m.CircuitBreakerOpen,
		m.AssetsTracked,
	)

	return m
}

// Registry exposes the underlying registry for an HTTP handler
// (promhttp.HandlerFor) to serve.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) IngestAccepted(assetID string) {
	if m == nil {
		return
	}
	m.SamplesIngested.WithLabelValues(assetID).Inc()
}

func (m *Metrics) IngestRejected(assetID, reason string) {
	if m == nil {
		return
	}
	m.IngestionFailures.WithLabelValues(assetID, reason).Inc()
}

func (m *Metrics) EventEmitted(assetID, eventType string) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(assetID, eventType).Inc()
}

func (m *Metrics) StoreWriteFailed(assetID string) {
	if m == nil {
		return
	}
	m.StoreWriteFailures.WithLabelValues(assetID).Inc()
}

func (m *Metrics) SetCircuitBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1.0
	}
	m.CircuitBreakerOpen.WithLabelValues(name).Set(v)
}

func (m *Metrics) SetAssetsTracked(n int) {
	if m == nil {
		return
	}
	m.AssetsTracked.Set(float64(n))
}

// StartDetectorTimer returns a func to call when scoring finishes; a
// no-op if m is nil so callers can defer it unconditionally.
func (m *Metrics) StartDetectorTimer() func() {
	if m == nil {
		return func() {}
	}
	timer := prometheus.NewTimer(m.DetectorScoreLatency)
	return func() { timer.ObserveDuration() }
}

// StartBaselineTimer returns a func to call when the build finishes.
func (m *Metrics) StartBaselineTimer() func() {
	if m == nil {
		return func() {}
	}
	timer := prometheus.NewTimer(m.BaselineBuildLatency)
	return func() { timer.ObserveDuration() }
}
