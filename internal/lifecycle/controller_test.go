package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/state"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/synth"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/telemetry"
)

type memoryWriter struct {
	mu     sync.Mutex
	points []store.Point
}

func (w *memoryWriter) WritePoint(ctx context.Context, p store.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, p)
	return nil
}

func (w *memoryWriter) WriteBatch(ctx context.Context, points []store.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, points...)
	return nil
}

func (w *memoryWriter) QueryWindow(ctx context.Context, assetID string, tr store.TimeRange) ([]store.Point, error) {
	return nil, nil
}

func (w *memoryWriter) DeleteAll(ctx context.Context, assetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.points[:0]
	for _, p := range w.points {
		if p.AssetID != assetID {
			kept = append(kept, p)
		}
	}
	w.points = kept
	return nil
}

func (w *memoryWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.points)
}

func newTestController() (*Controller, *memoryWriter) {
	w := &memoryWriter{}
	c := New(state.New(), w, telemetry.New(), events.New(), detector.DefaultParams(), zerolog.Nop())
	return c, w
}

func waitForState(t *testing.T, c *Controller, want domain.SystemState, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, want, c.State())
}

func TestCalibrateTransitionsIdleToCalibratingThenMonitoring(t *testing.T) {
	c, _ := newTestController()

	require.Equal(t, domain.StateIdle, c.State())
	require.NoError(t, c.Calibrate("m1"))

	waitForState(t, c, domain.StateMonitoringHealthy, 2*time.Second)
	assert.Equal(t, "m1", c.AssetID())
}

func TestCalibrateRejectedUnlessIdle(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.Calibrate("m1"))
	waitForState(t, c, domain.StateMonitoringHealthy, 2*time.Second)

	err := c.Calibrate("m1")
	require.Error(t, err)
	require.NoError(t, c.Stop())
}

func TestInjectFaultRequiresMonitoringHealthy(t *testing.T) {
	c, _ := newTestController()
	err := c.InjectFault(synth.FaultSpike, synth.SeveritySevere)
	require.Error(t, err)
}

func TestInjectFaultFromMonitoringHealthy(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.Calibrate("m1"))
	waitForState(t, c, domain.StateMonitoringHealthy, 2*time.Second)

	require.NoError(t, c.InjectFault(synth.FaultSpike, synth.SeveritySevere))
	assert.Equal(t, domain.StateFaultInjection, c.State())
	require.NoError(t, c.Stop())
}

func TestResetReturnsToMonitoringHealthy(t *testing.T) {
	c, _ := newTestController()
	require.NoError(t, c.Calibrate("m1"))
	waitForState(t, c, domain.StateMonitoringHealthy, 2*time.Second)
	require.NoError(t, c.InjectFault(synth.FaultDrift, synth.SeverityMedium))

	require.NoError(t, c.Reset())
	assert.Equal(t, domain.StateMonitoringHealthy, c.State())
	require.NoError(t, c.Stop())
}

func TestResetRejectedFromIdle(t *testing.T) {
	c, _ := newTestController()
	require.Error(t, c.Reset())
}

func TestStopRejectedWhileCalibrating(t *testing.T) {
	c, _ := newTestController()
	c.mu.Lock()
	c.state = domain.StateCalibrating
	c.mu.Unlock()

	require.Error(t, c.Stop())
}

func TestPurgeWipesStoreAndResetsMetrics(t *testing.T) {
	c, w := newTestController()
	require.NoError(t, c.Calibrate("m1"))
	waitForState(t, c, domain.StateMonitoringHealthy, 2*time.Second)
	require.Greater(t, w.count(), 0)

	require.NoError(t, c.Purge(context.Background()))
	assert.Equal(t, domain.StateIdle, c.State())
	assert.Equal(t, "", c.AssetID())

	snap := c.Metrics()
	assert.Equal(t, 0, snap.TrainingSamples)
	assert.Equal(t, 0, w.count())
}

func TestMetricsDefaultRatesAreOneWhenNoObservations(t *testing.T) {
	c, _ := newTestController()
	snap := c.Metrics()
	assert.Equal(t, 1.0, snap.HealthyStability)
	assert.Equal(t, 1.0, snap.FaultCaptureRate)
}
