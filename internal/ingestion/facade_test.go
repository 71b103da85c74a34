package ingestion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/health"
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

func (w *memoryWriter) DeleteAll(ctx context.Context, assetID string) error { return nil }

func newFacade() (*Facade, *state.Store) {
	st := state.New()
	f := New(st, &memoryWriter{}, events.New(), health.New("health-v1"), telemetry.New(), 100, detector.DefaultParams())
	return f, st
}

func validSample(assetID string, ts time.Time) domain.RawSample {
	return domain.RawSample{
		AssetID:     assetID,
		Timestamp:   ts.UTC(),
		VoltageV:    230,
		CurrentA:    15,
		PowerFactor: 0.92,
		VibrationG:  0.15,
	}
}

func TestIngestSampleRejectsClientSuppliedPower(t *testing.T) {
	f, _ := newFacade()
	_, err := f.IngestSample(context.Background(), "m1", validSample("m1", time.Now()), true)
	require.Error(t, err)
	kind, ok := domainerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindValidation, kind)
}

func TestIngestSampleRejectsInvalidPowerFactor(t *testing.T) {
	f, _ := newFacade()
	sample := validSample("m1", time.Now())
	sample.PowerFactor = 1.5
	_, err := f.IngestSample(context.Background(), "m1", sample, false)
	require.Error(t, err)
}

func TestIngestSampleAcceptsAndAppendsToHistory(t *testing.T) {
	f, st := newFacade()
	result, err := f.IngestSample(context.Background(), "m1", validSample("m1", time.Now()), false)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, result.SampleCount)
	assert.True(t, st.HasData("m1"))
}

func TestAssessCurrentReturnsPendingWithoutBaseline(t *testing.T) {
	f, _ := newFacade()
	_, err := f.IngestSample(context.Background(), "m1", validSample("m1", time.Now()), false)
	require.NoError(t, err)

	report, err := f.AssessCurrent("m1")
	require.NoError(t, err)
	assert.Equal(t, pendingHealthScore, report.HealthScore)
	assert.Equal(t, domain.RiskLow, report.RiskLevel)
	require.Len(t, report.Explanations, 1)
	assert.Equal(t, pendingReason, report.Explanations[0].Reason)
}

func TestAssessCurrentWithBaselineScoresLatestWindow(t *testing.T) {
	f, st := newFacade()
	gen := synth.New("m1", synth.Healthy, 11)
	samples := gen.Burst(200, time.Now().UTC(), time.Hour)
	for _, s := range samples {
		st.AppendSamples("m1", []domain.RawSample{s})
	}
	profile, err := baseline.Build("m1", samples, baseline.Window{})
	require.NoError(t, err)
	st.SetBaseline("m1", profile)

	report, err := f.AssessCurrent("m1")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ModelVersion)
	assert.Contains(t, report.ModelVersion, "detector:none")
	assert.GreaterOrEqual(t, report.HealthScore, 0)
	assert.LessOrEqual(t, report.HealthScore, 100)
}

func TestBuildBaselineFailsBelowMinimumHealthySamples(t *testing.T) {
	f, st := newFacade()
	gen := synth.New("m1", synth.Healthy, 1)
	for i := 0; i < 5; i++ {
		s := gen.Next(time.Now().UTC())
		st.AppendSamples("m1", []domain.RawSample{s})
	}

	_, err := f.BuildBaseline("m1", 1)
	require.Error(t, err)
	kind, ok := domainerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindInsufficientData, kind)
}

func TestBuildBaselineSucceedsAndInstallsDetectorWhenEnoughWindows(t *testing.T) {
	f, st := newFacade()
	gen := synth.New("m1", synth.Healthy, 5)
	samples := gen.Burst(1000, time.Now().UTC(), time.Hour)
	for _, s := range samples {
		st.AppendSamples("m1", []domain.RawSample{s})
	}

	result, err := f.BuildBaseline("m1", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, result.BaselineID)
	assert.NotNil(t, st.Baseline("m1"))
	assert.NotNil(t, st.Detector("m1"))
}

func TestOutsideToleranceFlagsFarSample(t *testing.T) {
	gen := synth.New("m1", synth.Healthy, 42)
	samples := gen.Burst(300, time.Now().UTC(), time.Hour)
	profile, err := baseline.Build("m1", samples, baseline.Window{})
	require.NoError(t, err)

	far := validSample("m1", time.Now())
	far.VoltageV = profile.SignalProfiles[domain.SignalVoltage].Max + 100
	assert.True(t, outsideTolerance(far, profile, BaselineTolerance))

	near := validSample("m1", time.Now())
	near.VoltageV = profile.SignalProfiles[domain.SignalVoltage].Mean
	assert.False(t, outsideTolerance(near, profile, BaselineTolerance))
}
