package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/features"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/state"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/synth"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/telemetry"
)

func TestMonitorTickHealthyStampsNotFaultyAndRecordsLowRisk(t *testing.T) {
	c := &Controller{
		assetType: DefaultAssetType,
		seed:      7,
		store:     state.New(),
		writer:    &memoryWriter{},
		tel:       telemetry.New(),
		events:    events.New(),
		log:       zerolog.Nop(),
	}

	now := time.Now().UTC()
	gen := synth.New("m1", synth.Healthy, 7)
	samples := gen.Burst(500, now, time.Hour)
	profile, err := baseline.Build("m1", samples, baseline.Window{})
	require.NoError(t, err)
	c.store.SetBaseline("m1", profile)

	c.monitorTick(context.Background(), "m1", gen, healthyFaultyThreshold, c.metrics.recordHealthyOutcome)

	history := c.store.History("m1", monitoringWindowSize)
	require.Len(t, history, monitoringWindowSize)
	for _, s := range history {
		assert.False(t, s.IsFaulty)
	}

	snap := c.Metrics()
	assert.Equal(t, 1, snap.HealthyTotal)
	assert.Equal(t, 1, snap.HealthyCorrect)
}

func TestMonitorTickFaultInjectionStampsFaulty(t *testing.T) {
	c := &Controller{
		assetType: DefaultAssetType,
		seed:      7,
		store:     state.New(),
		writer:    &memoryWriter{},
		tel:       telemetry.New(),
		events:    events.New(),
		log:       zerolog.Nop(),
	}

	now := time.Now().UTC()
	healthyGen := synth.New("m1", synth.Healthy, 7)
	samples := healthyGen.Burst(500, now, time.Hour)
	profile, err := baseline.Build("m1", samples, baseline.Window{})
	require.NoError(t, err)
	c.store.SetBaseline("m1", profile)

	faultyGen := synth.New("m1", synth.Profile{Kind: synth.FaultSpike, Severity: synth.SeveritySevere}, 7)
	c.monitorTick(context.Background(), "m1", faultyGen, injectionFaultyThreshold, c.metrics.recordFaultyOutcome)

	history := c.store.History("m1", monitoringWindowSize)
	require.Len(t, history, monitoringWindowSize)
	faultyCount := 0
	for _, s := range history {
		if s.IsFaulty {
			faultyCount++
		}
	}
	assert.Equal(t, monitoringWindowSize, faultyCount)

	snap := c.Metrics()
	assert.Equal(t, 1, snap.FaultyTotal)
	assert.Equal(t, 1, snap.FaultyCorrect)
}

func TestScoreWindowFallsBackToZeroWithoutBaselineOrDetector(t *testing.T) {
	c := &Controller{
		assetType: DefaultAssetType,
		store:     state.New(),
		writer:    &memoryWriter{},
		tel:       telemetry.New(),
		events:    events.New(),
		log:       zerolog.Nop(),
	}
	now := time.Now().UTC()
	gen := synth.New("m1", synth.Healthy, 3)
	window := gen.Window(monitoringWindowSize, now, monitoringSpacing)
	fv, err := features.Extract(domain.Window{AssetID: "m1", Samples: window})
	require.NoError(t, err)

	score := c.scoreWindow("m1", fv, window)
	assert.Equal(t, 0.0, score)
}
