package synth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthyGeneratorStaysNearNominal(t *testing.T) {
	g := New("m1", Healthy, 1)
	now := time.Now().UTC()
	for i := 0; i < 200; i++ {
		s := g.Next(now)
		assert.InDelta(t, NominalVoltageV, s.VoltageV, 15)
		assert.GreaterOrEqual(t, s.PowerFactor, 0.0)
		assert.LessOrEqual(t, s.PowerFactor, 1.0)
	}
}

func TestSevereSpikeShiftsSignalsFarFromHealthy(t *testing.T) {
	healthy := New("m1", Healthy, 1)
	faulty := New("m1", Profile{Kind: FaultSpike, Severity: SeveritySevere}, 1)
	now := time.Now().UTC()

	var healthyVib, faultyVib float64
	for i := 0; i < 100; i++ {
		healthyVib += healthy.Next(now).VibrationG
		faultyVib += faulty.Next(now).VibrationG
	}
	assert.Greater(t, faultyVib, healthyVib*2)
}

func TestJitterKeepsMeanButInflatesVariance(t *testing.T) {
	jitter := New("m1", Profile{Kind: FaultJitter, Severity: SeveritySevere}, 7)
	healthy := New("m1", Healthy, 7)
	now := time.Now().UTC()

	var jitterValues, healthyValues []float64
	for i := 0; i < 300; i++ {
		jitterValues = append(jitterValues, jitter.Next(now).VibrationG)
		healthyValues = append(healthyValues, healthy.Next(now).VibrationG)
	}

	assert.Greater(t, stddev(jitterValues), stddev(healthyValues)*1.5)
}

func TestBurstSpansRequestedWindow(t *testing.T) {
	g := New("m1", Healthy, 1)
	end := time.Now().UTC()
	samples := g.Burst(1000, end, time.Hour)
	assert.Len(t, samples, 1000)
	assert.True(t, samples[0].Timestamp.Before(samples[len(samples)-1].Timestamp))
	assert.WithinDuration(t, end, samples[len(samples)-1].Timestamp, 2*time.Minute)
}

func stddev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
