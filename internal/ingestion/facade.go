// Package ingestion implements the single surface the external API
// drives (C10): sample ingestion, on-demand assessment, and baseline
// (re)building, composed from the StateStore, BaselineBuilder,
// Detector, RangeFallback, HealthAssessor, Explainer, and EventEngine.
package ingestion

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/explain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/features"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/health"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/state"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/telemetry"
)

// BaselineTolerance widens the baseline's observed [min, max] by this
// fraction before range-checking an incoming sample.
const BaselineTolerance = 0.10

// MinHealthySamplesForBaseline is the floor build_baseline enforces
// before invoking BaselineBuilder.
const MinHealthySamplesForBaseline = 10

// pendingHealthScore/pendingReason (with risk LOW) are returned by
// assess_current when an asset has no baseline yet.
const pendingHealthScore = 85
const pendingReason = "Baseline not yet established"

// AssetType tags points persisted through ingest_sample.
var AssetType = "motor"

// Facade composes the pipeline components behind one surface.
type Facade struct {
	store          *state.Store
	writer         store.Writer
	events         *events.Engine
	health         *health.Assessor
	tel            *telemetry.Metrics
	windowLen      int
	detectorParams detector.Params
}

// New builds a Facade. windowLen is the window size used for
// assess_current's latest-window feature extraction, and detectorParams
// the hyperparameters BuildBaseline trains a fresh Detector with.
func New(st *state.Store, writer store.Writer, engine *events.Engine, assessor *health.Assessor, tel *telemetry.Metrics, windowLen int, detectorParams detector.Params) *Facade {
	return &Facade{store: st, writer: writer, events: engine, health: assessor, tel: tel, windowLen: windowLen, detectorParams: detectorParams}
}

// History returns up to limit of the asset's most recent retained
// samples, oldest first. limit<=0 returns the full retained history.
func (f *Facade) History(assetID string, limit int) []domain.RawSample {
	return f.store.History(assetID, limit)
}

// Baseline returns the asset's installed BaselineProfile, or nil.
func (f *Facade) Baseline(assetID string) *baseline.Profile {
	return f.store.Baseline(assetID)
}

// IngestResult is returned by IngestSample.
type IngestResult struct {
	Accepted     bool
	SampleCount  int
	Event        *domain.Event
	DerivedPower float64
}

// IngestSample validates sample, computes the derived power, range-checks
// it against any existing baseline, appends it to the StateStore and the
// external store, and runs the event engine.
func (f *Facade) IngestSample(ctx context.Context, assetID string, sample domain.RawSample, clientSuppliedPower bool) (IngestResult, error) {
	sample.AssetID = assetID
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	if clientSuppliedPower {
		return IngestResult{}, domainerr.New(domainerr.KindValidation, "ingestion: client-supplied power_kw is rejected")
	}
	if err := sample.Validate(); err != nil {
		f.tel.IngestRejected(assetID, "validation")
		return IngestResult{}, domainerr.Wrap(domainerr.KindValidation, "ingestion: invalid sample", err)
	}

	profile := f.store.Baseline(assetID)
	sample.IsFaulty = profile != nil && outsideTolerance(sample, profile, BaselineTolerance)

	f.store.AppendSamples(assetID, []domain.RawSample{sample})
	if err := f.writer.WritePoint(ctx, store.PointFromSample(sample, AssetType)); err != nil {
		f.tel.StoreWriteFailed(assetID)
	}
	f.tel.IngestAccepted(assetID)

	var deviations []events.DeviationPhrase
	if profile != nil {
		deviations = deviationPhrasesForSample(sample, profile)
	}
	evt, emitted := f.events.Evaluate(assetID, sample.IsFaulty, sample.Timestamp, deviations)

	result := IngestResult{
		Accepted:     true,
		SampleCount:  len(f.store.History(assetID, state.HistoryCapacity)),
		DerivedPower: sample.PowerKW(),
	}
	if emitted {
		result.Event = &evt
		f.tel.EventEmitted(assetID, string(evt.Type))
	}
	return result, nil
}

// AssessCurrent extracts the latest window's FeatureVector, scores it
// via Detector+RangeFallback blend, assesses health, explains, caches
// the report, and returns it. Returns a "pending" report when no
// baseline/history exists yet.
func (f *Facade) AssessCurrent(assetID string) (domain.HealthReport, error) {
	profile := f.store.Baseline(assetID)
	history := f.store.History(assetID, f.windowLen)

	if profile == nil || len(history) < domain.MinWindowSize {
		return f.pendingReport(assetID), nil
	}

	n := f.windowLen
	if len(history) < n {
		n = len(history)
	}
	latest := history[len(history)-n:]

	window := domain.Window{AssetID: assetID, Samples: latest}
	fv, err := features.Extract(window)
	if err != nil {
		return domain.HealthReport{}, domainerr.Wrap(domainerr.KindValidation, "ingestion: feature extraction failed", err)
	}

	stopTimer := f.tel.StartDetectorTimer()
	mlScore, rangeScore, modelVersion := f.scoreFeatureVector(assetID, fv, latest, profile)
	stopTimer()

	blended := detector.Blend(mlScore, rangeScore, detector.BlendCanonical)

	var explanations []domain.Explanation
	if health.ClassifyRisk(health.ScoreToHealth(blended)) != domain.RiskLow {
		latestSample := latest[len(latest)-1]
		explanations = explain.Explain(latestSample, profile)
	}

	reportID := "report_" + uuid.NewString()
	report := f.health.Assess(assetID, reportID, blended, explanations, time.Now().UTC())
	report.ModelVersion = modelVersion

	if report.RiskLevel == domain.RiskCritical && len(report.Explanations) == 0 {
		report.Explanations = f.criticalFallbackExplanations(assetID, fv)
	}

	f.store.SetLastReport(assetID, report)
	return report, nil
}

// criticalFallbackExplanations covers the case Explain can't: a window
// whose blended score is CRITICAL purely from variance-driven features
// (e.g. jitter) while the latest instantaneous sample still sits inside
// the baseline band, so sample-level Explain finds nothing. It falls
// back to the Detector's own feature-level contributions, and failing
// that to a generic notice, so a CRITICAL report is never explanation-less.
func (f *Facade) criticalFallbackExplanations(assetID string, fv domain.FeatureVector) []domain.Explanation {
	if det := f.store.Detector(assetID); det != nil {
		contributions := det.Explain(fv)
		if len(contributions) > 0 {
			out := make([]domain.Explanation, len(contributions))
			for i, c := range contributions {
				out[i] = domain.Explanation{
					Reason:          fmt.Sprintf("%s deviates %.1f std from its healthy baseline (value %.3f, mean %.3f)", c.Feature, c.ZScore, c.Value, c.HealthyMean),
					RelatedFeatures: []string{c.Feature},
					ConfidenceScore: confidenceFromZ(c.ZScore),
				}
			}
			return out
		}
	}
	return []domain.Explanation{{
		Reason:          "Elevated anomaly score with no single feature crossing its threshold",
		ConfidenceScore: 0.5,
	}}
}

func confidenceFromZ(z float64) float64 {
	v := 0.5 + 0.1*math.Abs(z)
	if v > 0.99 {
		return 0.99
	}
	return v
}

func (f *Facade) pendingReport(assetID string) domain.HealthReport {
	return domain.HealthReport{
		ReportID:    "report_" + uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		AssetID:     assetID,
		HealthScore: pendingHealthScore,
		RiskLevel:   domain.RiskLow,
		Explanations: []domain.Explanation{{
			Reason:          pendingReason,
			ConfidenceScore: 1.0,
		}},
	}
}

// scoreFeatureVector returns the ML score (0 if no trained Detector),
// the RangeFallback score, and the "detector:<v>|baseline:<id>"
// model-version metadata string for the report.
func (f *Facade) scoreFeatureVector(assetID string, fv domain.FeatureVector, window []domain.RawSample, profile *baseline.Profile) (mlScore, rangeScore float64, modelVersion string) {
	detectorVersion := "none"
	if det := f.store.Detector(assetID); det != nil {
		if score, err := det.ScoreBatch(fv); err == nil {
			mlScore = score
			detectorVersion = det.Version()
		}
	}

	var sum float64
	for _, s := range window {
		sum += detector.RangeScore(s, profile)
	}
	rangeScore = sum / float64(len(window))
	modelVersion = fmt.Sprintf("detector:%s|baseline:%s", detectorVersion, profile.BaselineID)
	return mlScore, rangeScore, modelVersion
}

// BuildBaselineResult is returned by BuildBaseline.
type BuildBaselineResult struct {
	BaselineID  string
	SampleCount int
}

// BuildBaseline invokes BaselineBuilder over the last `hours` of stored
// history and, if it succeeds, trains a new Detector from the same
// samples. Fails with InsufficientData when fewer than
// MinHealthySamplesForBaseline healthy samples are available.
func (f *Facade) BuildBaseline(assetID string, hours int) (BuildBaselineResult, error) {
	history := f.store.History(assetID, state.HistoryCapacity)

	healthyCount := 0
	for _, s := range history {
		if !s.IsFaulty {
			healthyCount++
		}
	}
	if healthyCount < MinHealthySamplesForBaseline {
		return BuildBaselineResult{}, domainerr.New(domainerr.KindInsufficientData,
			"ingestion: fewer than 10 healthy samples available to build a baseline")
	}

	window := baseline.Window{}
	if hours > 0 {
		window.End = time.Now().UTC()
		window.Start = window.End.Add(-time.Duration(hours) * time.Hour)
	}

	profile, err := baseline.Build(assetID, history, window)
	if err != nil {
		return BuildBaselineResult{}, err
	}
	f.store.SetBaseline(assetID, profile)

	if rows, err := features.ExtractMultiWindow(assetID, history, f.windowLen); err == nil {
		if det, err := detector.TrainWithParams(assetID, rows, f.detectorParams); err == nil {
			f.store.SetDetector(assetID, det)
		}
	}

	return BuildBaselineResult{BaselineID: profile.BaselineID, SampleCount: profile.TrainingWindow.SampleCount}, nil
}

// outsideTolerance reports whether sample falls outside any signal's
// [min, max] widened by tolerance on each side.
func outsideTolerance(sample domain.RawSample, profile *baseline.Profile, tolerance float64) bool {
	for _, signal := range domain.Signals {
		sp, ok := profile.SignalProfiles[signal]
		if !ok {
			continue
		}
		rng := sp.Max - sp.Min
		pad := rng * tolerance
		x := sample.Value(signal)
		if x < sp.Min-pad || x > sp.Max+pad {
			return true
		}
	}
	return false
}

func deviationPhrasesForSample(sample domain.RawSample, profile *baseline.Profile) []events.DeviationPhrase {
	var out []events.DeviationPhrase
	for _, signal := range domain.Signals {
		sp, ok := profile.SignalProfiles[signal]
		if !ok {
			continue
		}
		x := sample.Value(signal)
		if x < sp.Min || x > sp.Max {
			out = append(out, events.DeviationPhrase{
				Feature: signal,
				Phrase:  signalOutOfRangePhrase(signal, x, sp.Min, sp.Max),
			})
		}
	}
	return out
}

func signalOutOfRangePhrase(signal string, value, min, max float64) string {
	return fmt.Sprintf("%s %.3f outside baseline [%.3f, %.3f]", signal, value, min, max)
}
