// Package health implements the deterministic score/health/risk/RUL
// mapping (C5): a continuous anomaly score in [0,1] is turned into an
// integer health score, an ordered risk level, and a heuristic
// remaining-useful-life window, using a small set of named thresholds.
package health

import (
	"math"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// Named thresholds, the only magic numbers in the health mapping.
const (
	ThresholdCritical = 25
	ThresholdHigh     = 50
	ThresholdModerate = 75
)

// RULBand gives the remaining-useful-life window (in days) reported for a
// risk level; MaintenanceWindowDays is the midpoint of the band.
type RULBand struct {
	Low  float64
	High float64
}

// RULByRisk maps each risk level to its RUL band.
var RULByRisk = map[domain.RiskLevel]RULBand{
	domain.RiskCritical: {Low: 0, High: 1},
	domain.RiskHigh:     {Low: 1, High: 7},
	domain.RiskModerate: {Low: 7, High: 30},
	domain.RiskLow:      {Low: 30, High: 90},
}

func (b RULBand) midpoint() float64 { return (b.Low + b.High) / 2 }

// ScoreToHealth maps an anomaly score a in [0,1] to an integer health
// score h in [0,100] via a three-piece, monotonically non-increasing
// linear mapping, rounded to the nearest integer and clamped.
func ScoreToHealth(a float64) int {
	var h float64
	switch {
	case a < 0.15:
		h = 100 - (a/0.15)*20
	case a < 0.35:
		h = 80 - ((a-0.15)/0.20)*30
	default:
		if a > 1.0 {
			a = 1.0
		}
		h = 50 - ((a-0.35)/0.65)*50
	}
	rounded := int(math.Round(h))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}
	return rounded
}

// ClassifyRisk maps an integer health score to a RiskLevel.
func ClassifyRisk(h int) domain.RiskLevel {
	switch {
	case h < ThresholdCritical:
		return domain.RiskCritical
	case h < ThresholdHigh:
		return domain.RiskHigh
	case h < ThresholdModerate:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

// Trend returns the slope of a length-N anomaly-score history, computed
// as (last-first)/(N-1). The second return value is false when N < 2,
// in which case the trend is undefined.
func Trend(history []float64) (float64, bool) {
	n := len(history)
	if n < 2 {
		return 0, false
	}
	return (history[n-1] - history[0]) / float64(n-1), true
}

// Assessor is a stateless deterministic mapper from anomaly score to
// HealthReport. It carries no per-asset state; callers attach the
// explanations computed separately by an Explainer.
type Assessor struct {
	ModelVersion string
}

// New returns an Assessor stamping reports with the given model version
// identifier (used for provenance/debugging, not scoring logic).
func New(modelVersion string) *Assessor {
	return &Assessor{ModelVersion: modelVersion}
}

// Assess turns one anomaly score into a HealthReport. explanations is
// attached verbatim; the contract requires CRITICAL reports to carry at
// least one explanation, which callers (internal/ingestion) must ensure
// by consulting internal/explain before calling Assess.
func (a *Assessor) Assess(assetID string, reportID string, anomalyScore float64, explanations []domain.Explanation, now time.Time) domain.HealthReport {
	health := ScoreToHealth(anomalyScore)
	risk := ClassifyRisk(health)
	band := RULByRisk[risk]

	return domain.HealthReport{
		ReportID:              reportID,
		Timestamp:             now,
		AssetID:               assetID,
		HealthScore:           health,
		RiskLevel:             risk,
		MaintenanceWindowDays: band.midpoint(),
		Explanations:          explanations,
		ModelVersion:          a.ModelVersion,
	}
}
