package lifecycle

import (
	"context"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/features"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/health"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/progress"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/synth"
)

const (
	calibrationBurstSize  = 1000
	calibrationPersistNth = 10
	calibrationProgressN  = 100

	monitoringWindowSize = 100
	monitoringSpacing    = 10 * time.Millisecond
	monitoringTick       = time.Second

	healthyFaultyThreshold   = 0.65
	injectionFaultyThreshold = 0.5
)

// runCalibration executes Phases A-D for assetID, then falls through
// into the continuous MONITORING_HEALTHY loop on the same worker.
func (c *Controller) runCalibration(ctx context.Context, done chan struct{}, assetID string) {
	defer close(done)

	gen := synth.New(assetID, synth.Healthy, c.seed)
	reporter := progress.New("calibration", calibrationProgressN, c.log)

	// Phase A: burst generation, spread across the last hour.
	now := time.Now().UTC()
	samples := gen.Burst(calibrationBurstSize, now, time.Hour)
	for i, s := range samples {
		if ctx.Err() != nil {
			return
		}
		c.store.AppendSamples(assetID, []domain.RawSample{s})
		if i%calibrationPersistNth == 0 {
			c.persistPoint(ctx, assetID, s)
		}
		reporter.Report(i+1, len(samples), "burst generation")
	}
	c.metrics.recordTrainingSamples(len(samples))

	// Phase B: baseline.
	profile, err := baseline.Build(assetID, samples, baseline.Window{})
	if err != nil {
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: baseline build failed")
	} else {
		c.store.SetBaseline(assetID, profile)
	}

	// Phase C: model training on non-overlapping windows sized to match
	// Phase D's scoring windows (monitoringWindowSize), so the training
	// and scoring feature distributions agree.
	rows, err := features.ExtractMultiWindow(assetID, samples, monitoringWindowSize)
	if err != nil {
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: feature extraction failed")
	} else if det, err := detector.TrainWithParams(assetID, rows, c.detectorParams); err != nil {
		c.log.Info().Str("asset_id", assetID).Err(err).Msg("lifecycle: detector training skipped, monitoring falls back to range check")
	} else {
		c.store.SetDetector(assetID, det)
	}
	reporter.Done("calibration complete")

	// Phase D: transition and continuous healthy loop.
	c.mu.Lock()
	c.state = domain.StateMonitoringHealthy
	c.mu.Unlock()

	c.monitorLoop(ctx, assetID, gen, healthyFaultyThreshold, c.metrics.recordHealthyOutcome)
}

// runHealthyMonitoring resumes the continuous healthy loop without
// repeating calibration, used by Reset.
func (c *Controller) runHealthyMonitoring(ctx context.Context, done chan struct{}, assetID string) {
	defer close(done)
	gen := synth.New(assetID, synth.Healthy, c.seed)
	c.monitorLoop(ctx, assetID, gen, healthyFaultyThreshold, c.metrics.recordHealthyOutcome)
}

// runFaultInjection runs the continuous loop with a signal generator
// configured to drift away from the healthy baseline.
func (c *Controller) runFaultInjection(ctx context.Context, done chan struct{}, assetID string, kind synth.FaultKind, severity synth.Severity) {
	defer close(done)
	gen := synth.New(assetID, synth.Profile{Kind: kind, Severity: severity}, c.seed)
	c.monitorLoop(ctx, assetID, gen, injectionFaultyThreshold, c.metrics.recordFaultyOutcome)
}

// monitorLoop generates one window per tick, scores it with the
// installed Detector (falling back to RangeFallback), stamps the
// batch-level is_faulty verdict, persists it, and records a
// classification outcome via recordOutcome.
func (c *Controller) monitorLoop(ctx context.Context, assetID string, gen *synth.Generator, faultyThreshold float64, recordOutcome func(bool)) {
	ticker := time.NewTicker(monitoringTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.monitorTick(ctx, assetID, gen, faultyThreshold, recordOutcome)
		}
	}
}

func (c *Controller) monitorTick(ctx context.Context, assetID string, gen *synth.Generator, faultyThreshold float64, recordOutcome func(bool)) {
	end := time.Now().UTC()
	window := gen.Window(monitoringWindowSize, end, monitoringSpacing)

	fv, err := features.Extract(domain.Window{AssetID: assetID, Samples: window})
	if err != nil {
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: window feature extraction failed")
		return
	}

	stopTimer := c.tel.StartDetectorTimer()
	anomalyScore := c.scoreWindow(assetID, fv, window)
	stopTimer()

	isFaulty := anomalyScore >= faultyThreshold
	stamped := make([]domain.RawSample, len(window))
	for i, s := range window {
		s.IsFaulty = isFaulty
		stamped[i] = s
	}
	c.store.AppendSamples(assetID, stamped)
	c.persistBatch(ctx, assetID, stamped)

	var deviations []events.DeviationPhrase
	if isFaulty {
		if det := c.store.Detector(assetID); det != nil {
			deviations = events.DeviationPhrasesFromFeatures(fv, det.HealthyMeans())
		}
	}
	if evt, emitted := c.events.Evaluate(assetID, isFaulty, end, deviations); emitted {
		c.tel.EventEmitted(assetID, string(evt.Type))
		c.log.Info().Str("asset_id", assetID).Str("type", string(evt.Type)).Str("message", evt.Message).Msg("lifecycle: event emitted")
	}

	h := health.ScoreToHealth(anomalyScore)
	risk := health.ClassifyRisk(h)
	if faultyThreshold == injectionFaultyThreshold {
		recordOutcome(risk.AtLeast(domain.RiskHigh))
	} else {
		recordOutcome(risk == domain.RiskLow)
	}
}

// scoreWindow uses the asset's trained Detector if present, otherwise
// averages RangeFallback across the window's samples against the
// installed baseline, otherwise 0 (no basis for a score yet).
func (c *Controller) scoreWindow(assetID string, fv domain.FeatureVector, window []domain.RawSample) float64 {
	if det := c.store.Detector(assetID); det != nil {
		score, err := det.ScoreBatch(fv)
		if err == nil {
			return score
		}
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: detector scoring failed, falling back to range check")
	}

	profile := c.store.Baseline(assetID)
	if profile == nil {
		return 0
	}
	var sum float64
	for _, s := range window {
		sum += detector.RangeScore(s, profile)
	}
	return sum / float64(len(window))
}

func (c *Controller) persistPoint(ctx context.Context, assetID string, s domain.RawSample) {
	if c.writer == nil {
		return
	}
	if err := c.writer.WritePoint(ctx, store.PointFromSample(s, c.assetType)); err != nil {
		c.tel.StoreWriteFailed(assetID)
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: persist sample failed")
	}
}

func (c *Controller) persistBatch(ctx context.Context, assetID string, samples []domain.RawSample) {
	if c.writer == nil {
		return
	}
	points := make([]store.Point, len(samples))
	for i, s := range samples {
		points[i] = store.PointFromSample(s, c.assetType)
	}
	if err := c.writer.WriteBatch(ctx, points); err != nil {
		c.tel.StoreWriteFailed(assetID)
		c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: persist batch failed")
	}
}
