package telemetry

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c *Metrics, assetID string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.SamplesIngested.WithLabelValues(assetID).Write(m))
	return m.GetCounter().GetValue()
}

func TestIngestAcceptedIncrementsPerAsset(t *testing.T) {
	m := New()
	m.IngestAccepted("m1")
	m.IngestAccepted("m1")
	m.IngestAccepted("m2")

	require.Equal(t, 2.0, counterValue(t, m, "m1"))
	require.Equal(t, 1.0, counterValue(t, m, "m2"))
}

func TestNilMetricsMethodsAreNoOps(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.IngestAccepted("m1")
		m.IngestRejected("m1", "nan_value")
		m.EventEmitted("m1", "ANOMALY_DETECTED")
		m.StoreWriteFailed("m1")
		m.SetCircuitBreakerOpen("store", true)
		m.SetAssetsTracked(3)
		stop := m.StartDetectorTimer()
		stop()
	})
}

func TestDetectorTimerObservesLatency(t *testing.T) {
	m := New()
	stop := m.StartDetectorTimer()
	stop()

	dtoMetric := &dto.Metric{}
	require.NoError(t, m.DetectorScoreLatency.Write(dtoMetric))
	require.Equal(t, uint64(1), dtoMetric.GetHistogram().GetSampleCount())
}

func TestCircuitBreakerGaugeReflectsState(t *testing.T) {
	m := New()
	m.SetCircuitBreakerOpen("primary-store", true)

	gauge := &dto.Metric{}
	require.NoError(t, m.CircuitBreakerOpen.WithLabelValues("primary-store").Write(gauge))
	require.Equal(t, 1.0, gauge.GetGauge().GetValue())

	m.SetCircuitBreakerOpen("primary-store", false)
	require.NoError(t, m.CircuitBreakerOpen.WithLabelValues("primary-store").Write(gauge))
	require.Equal(t, 0.0, gauge.GetGauge().GetValue())
}
