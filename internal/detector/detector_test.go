package detector

import (
	"math/rand"
	"testing"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyWindow(rng *rand.Rand) domain.Window {
	samples := make([]domain.RawSample, 100)
	base := time.Now().UTC()
	for i := range samples {
		samples[i] = domain.RawSample{
			AssetID:     "m1",
			Timestamp:   base.Add(time.Duration(i) * 10 * time.Millisecond),
			VoltageV:    230 + rng.NormFloat64()*2,
			CurrentA:    15 + rng.NormFloat64()*1,
			PowerFactor: clip(0.92+rng.NormFloat64()*0.02, 0, 1),
			VibrationG:  0.15 + rng.NormFloat64()*0.03,
		}
	}
	return domain.Window{AssetID: "m1", Samples: samples}
}

func trainHealthyDetector(t *testing.T, n int) *Detector {
	rng := rand.New(rand.NewSource(1))
	rows := make([]domain.FeatureVector, 0, n)
	for i := 0; i < n; i++ {
		fv, err := features.Extract(healthyWindow(rng))
		require.NoError(t, err)
		rows = append(rows, fv)
	}
	d, err := Train("m1", rows)
	require.NoError(t, err)
	return d
}

func TestTrainInsufficientWindows(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var rows []domain.FeatureVector
	for i := 0; i < 5; i++ {
		fv, _ := features.Extract(healthyWindow(rng))
		rows = append(rows, fv)
	}
	_, err := Train("m1", rows)
	require.Error(t, err)
	kind, ok := domainerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindInsufficientTraining, kind)
}

func TestScoreBatchRejectsMissingFeature(t *testing.T) {
	d := trainHealthyDetector(t, 20)
	fv := domain.FeatureVector{}
	_, err := d.ScoreBatch(fv)
	require.Error(t, err)
	kind, ok := domainerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindValidation, kind)
}

func TestTrainingSetScoresMedianBelowCalibratedThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var rows []domain.FeatureVector
	for i := 0; i < 60; i++ {
		fv, err := features.Extract(healthyWindow(rng))
		require.NoError(t, err)
		rows = append(rows, fv)
	}
	d, err := Train("m1", rows)
	require.NoError(t, err)

	scores := make([]float64, len(rows))
	for i, r := range rows {
		s, err := d.ScoreBatch(r)
		require.NoError(t, err)
		scores[i] = s
	}
	median := percentile(scores, 50)
	assert.LessOrEqual(t, median, 0.67)
}

func TestScoreAlwaysWithinContractRange(t *testing.T) {
	d := trainHealthyDetector(t, 30)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 20; i++ {
		fv, err := features.Extract(healthyWindow(rng))
		require.NoError(t, err)
		score, err := d.ScoreBatch(fv)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 0.98)
	}
}

func TestRangeScoreClampedAndMonotonic(t *testing.T) {
	profile := &baseline.Profile{
		SignalProfiles: map[string]baseline.SignalProfile{
			domain.SignalVoltage:   {Mean: 230, Std: 2, Min: 225, Max: 235},
			domain.SignalCurrent:   {Mean: 15, Std: 1, Min: 13, Max: 17},
			domain.SignalPowerFact: {Mean: 0.92, Std: 0.02, Min: 0.88, Max: 0.96},
			domain.SignalVibration: {Mean: 0.15, Std: 0.03, Min: 0.1, Max: 0.2},
		},
	}
	healthy := domain.RawSample{AssetID: "m1", VoltageV: 230, CurrentA: 15, PowerFactor: 0.92, VibrationG: 0.15}
	spike := domain.RawSample{AssetID: "m1", VoltageV: 280, CurrentA: 25, PowerFactor: 0.7, VibrationG: 1.5}

	sHealthy := RangeScore(healthy, profile)
	sSpike := RangeScore(spike, profile)

	assert.GreaterOrEqual(t, sHealthy, 0.0)
	assert.LessOrEqual(t, sSpike, 0.95)
	assert.Less(t, sHealthy, sSpike)
}

func TestBlendPolicies(t *testing.T) {
	assert.InDelta(t, 0.7*0.3+0.3*0.8, Blend(0.8, 0.3, BlendCanonical), 1e-9)
	assert.InDelta(t, 0.4, Blend(0.1, 0.4, BlendCanonical), 1e-9) // ML healthy, range indicates fault -> trust range
	assert.InDelta(t, 0.6*0.5+0.4*0.5, Blend(0.5, 0.5, BlendCanonical), 1e-9)
	assert.InDelta(t, 0.98, Blend(1, 1, BlendCanonical), 1e-9)
}

func TestExplainOnlySignificantZScores(t *testing.T) {
	d := trainHealthyDetector(t, 30)
	fv := domain.FeatureVector{}
	for _, name := range domain.FeatureNames() {
		fv[name] = d.healthyMeans[name]
	}
	fv["vibration_g_std"] = d.healthyMeans["vibration_g_std"] + 10*d.healthyStds["vibration_g_std"]

	contributions := d.Explain(fv)
	require.NotEmpty(t, contributions)
	assert.Equal(t, "vibration_g_std", contributions[0].Feature)
	assert.LessOrEqual(t, len(contributions), 5)
}
