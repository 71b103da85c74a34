package baseline

import (
	"testing"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthySamples(n int) []domain.RawSample {
	out := make([]domain.RawSample, n)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		out[i] = domain.RawSample{
			AssetID:     "m1",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			VoltageV:    230,
			CurrentA:    15,
			PowerFactor: 0.92,
			VibrationG:  0.15,
		}
	}
	return out
}

func TestBuildHappyPath(t *testing.T) {
	profile, err := Build("m1", healthySamples(1000), Window{})
	require.NoError(t, err)
	assert.Equal(t, "m1", profile.AssetID)
	assert.Len(t, profile.SignalProfiles, 4)
	assert.Equal(t, 230.0, profile.SignalProfiles[domain.SignalVoltage].Mean)
	errs := ValidateProfile(profile)
	assert.Empty(t, errs)
}

func TestBuildDropsFaultySamples(t *testing.T) {
	samples := healthySamples(100)
	samples[0].IsFaulty = true
	samples[0].VoltageV = 999
	profile, err := Build("m1", samples, Window{})
	require.NoError(t, err)
	assert.Equal(t, 99, profile.TrainingWindow.SampleCount)
}

func TestBuildInsufficientCoverage(t *testing.T) {
	samples := healthySamples(1000)
	for i := range samples {
		if i%3 != 0 { // ~67% missing -> below 80% floor
			samples[i].VoltageV = nanFloat()
		}
	}
	_, err := Build("m1", samples, Window{})
	require.Error(t, err)
	kind, ok := domainerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindInsufficientCoverage, kind)
}

func TestBaselineRoundTrip(t *testing.T) {
	profile, err := Build("m1", healthySamples(500), Window{})
	require.NoError(t, err)

	data, err := Marshal(profile)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, profile.BaselineID, loaded.BaselineID)
	assert.Equal(t, profile.AssetID, loaded.AssetID)
	assert.Equal(t, profile.SignalProfiles, loaded.SignalProfiles)
	assert.Equal(t, profile.TrainingWindow.SampleCount, loaded.TrainingWindow.SampleCount)
}

func nanFloat() float64 {
	var z float64
	return z / z
}
