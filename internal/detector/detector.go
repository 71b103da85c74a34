// Package detector implements the batch anomaly detector (C3) — an
// isolation-forest-style outlier model trained on healthy feature
// vectors, calibrated into a [0,1] anomaly score — and the range-check
// fallback (C4) used when no trained detector exists for an asset.
package detector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/features"
)

// Hyperparameters.
const (
	Contamination = 0.05
	NEstimators   = 150
	RandomState   = 42

	// MinTrainingWindows is the minimum usable feature-vector rows
	// required to fit a Detector.
	MinTrainingWindows = 10
)

// Detector is an opaque, per-asset fitted outlier model: a scaler, an
// isolation forest, a calibration threshold, and healthy means/stds kept
// for explainability. Built and fitted exactly once per calibration
// cycle; callers swap it atomically on retraining (see internal/state).
type Detector struct {
	AssetID              string
	scaler               *scaler
	forest               *isolationForest
	thresholdScore       float64
	healthyMeans         map[string]float64
	healthyStds          map[string]float64
	trainedAt            time.Time
	trainingSampleCount  int
}

// Params holds the hyperparameters Train fits a Detector with.
// DefaultParams returns the package's built-in defaults; callers
// wired to a loaded configuration should build Params from it instead.
type Params struct {
	Contamination float64
	NEstimators   int
	RandomState   int64
}

// DefaultParams returns the package's built-in hyperparameter defaults.
func DefaultParams() Params {
	return Params{Contamination: Contamination, NEstimators: NEstimators, RandomState: RandomState}
}

// Train fits a new Detector on a batch of FeatureVectors drawn from
// healthy windows, using DefaultParams. Fails with InsufficientTraining
// when fewer than MinTrainingWindows usable rows remain after dropping
// rows with a missing/non-finite canonical feature.
func Train(assetID string, rows []domain.FeatureVector) (*Detector, error) {
	return TrainWithParams(assetID, rows, DefaultParams())
}

// TrainWithParams is Train parameterised by the caller's loaded
// Contamination/NEstimators/RandomState instead of the package defaults.
func TrainWithParams(assetID string, rows []domain.FeatureVector, params Params) (*Detector, error) {
	names := domain.FeatureNames()

	usable := make([]domain.FeatureVector, 0, len(rows))
	for _, r := range rows {
		ok := true
		for _, name := range names {
			v, present := r[name]
			if !present || math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
		}
		if ok {
			usable = append(usable, r)
		}
	}
	if len(usable) < MinTrainingWindows {
		return nil, domainerr.New(domainerr.KindInsufficientTraining,
			fmt.Sprintf("detector: need >= %d usable training windows, got %d", MinTrainingWindows, len(usable)))
	}

	sc := fitScaler(usable)
	scaledRows := sc.transformBatch(usable)
	forest := fitIsolationForest(scaledRows, params.NEstimators, params.RandomState)

	// Calibration threshold: the (1-contamination) percentile of training
	// decision values, sign-normalised so larger = more anomalous.
	raws := make([]float64, len(scaledRows))
	for i, row := range scaledRows {
		raws[i] = forest.anomalyScore(row)
	}
	contamination := params.Contamination
	if contamination <= 0 || contamination >= 1 {
		contamination = Contamination
	}
	threshold := percentile(raws, (1-contamination)*100)

	healthyMeans := make(map[string]float64, len(names))
	healthyStds := make(map[string]float64, len(names))
	for _, name := range names {
		var sum float64
		for _, r := range usable {
			sum += r[name]
		}
		mean := sum / float64(len(usable))
		var variance float64
		for _, r := range usable {
			d := r[name] - mean
			variance += d * d
		}
		variance /= float64(len(usable))
		healthyMeans[name] = mean
		healthyStds[name] = math.Sqrt(variance)
	}

	return &Detector{
		AssetID:             assetID,
		scaler:              sc,
		forest:              forest,
		thresholdScore:      threshold,
		healthyMeans:        healthyMeans,
		healthyStds:         healthyStds,
		trainedAt:           time.Now().UTC(),
		trainingSampleCount: len(usable),
	}, nil
}

// HealthyMeans returns a copy of the per-feature means the detector was
// trained on, keyed by feature name.
func (d *Detector) HealthyMeans() map[string]float64 {
	out := make(map[string]float64, len(d.healthyMeans))
	for k, v := range d.healthyMeans {
		out[k] = v
	}
	return out
}

// TrainedAt returns when the detector was fitted.
func (d *Detector) TrainedAt() time.Time { return d.trainedAt }

// TrainingSampleCount returns how many feature-vector rows were used to
// fit the detector.
func (d *Detector) TrainingSampleCount() int { return d.trainingSampleCount }

// Version is a short identifier for the model_version metadata field.
func (d *Detector) Version() string {
	return fmt.Sprintf("isoforest-%d@%s", d.trainingSampleCount, d.trainedAt.Format(time.RFC3339))
}

// ScoreBatch computes the calibrated anomaly score for one feature vector.
// Every canonical feature must be present and finite, otherwise a
// ValidationError ("InvalidFeatures") is returned.
func (d *Detector) ScoreBatch(fv domain.FeatureVector) (float64, error) {
	for _, name := range domain.FeatureNames() {
		v, present := fv[name]
		if !present || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, domainerr.New(domainerr.KindValidation, fmt.Sprintf("detector: missing/non-finite feature %s", name))
		}
	}

	scaled := d.scaler.transform(fv)
	raw := d.forest.anomalyScore(scaled)

	factor := d.thresholdScore * 1.5
	var calibrated float64
	if factor > 0 {
		calibrated = raw / factor
	} else {
		calibrated = raw
	}
	return clip(calibrated, 0, 0.98), nil
}

// ScoreRawWindow is a convenience wrapper: extract(window) then score.
func (d *Detector) ScoreRawWindow(w domain.Window) (float64, error) {
	fv, err := features.Extract(w)
	if err != nil {
		return 0, err
	}
	return d.ScoreBatch(fv)
}

// FeatureContribution describes one feature's deviation from the
// detector's healthy distribution, used to build Explanations.
type FeatureContribution struct {
	Feature     string
	Value       float64
	HealthyMean float64
	HealthyStd  float64
	ZScore      float64
}

// Explain returns up to 5 feature contributions sorted by |z-score|
// descending, for every feature whose |z| >= 1.5.
func (d *Detector) Explain(fv domain.FeatureVector) []FeatureContribution {
	var contributions []FeatureContribution
	for _, name := range domain.FeatureNames() {
		val, ok := fv[name]
		if !ok {
			continue
		}
		mean := d.healthyMeans[name]
		std := d.healthyStds[name]
		if std < 1e-9 {
			std = 1e-9
		}
		z := (val - mean) / std
		if math.Abs(z) < 1.5 {
			continue
		}
		contributions = append(contributions, FeatureContribution{
			Feature: name, Value: val, HealthyMean: mean, HealthyStd: std, ZScore: z,
		})
	}
	sort.Slice(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].ZScore) > math.Abs(contributions[j].ZScore)
	})
	if len(contributions) > 5 {
		contributions = contributions[:5]
	}
	return contributions
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func clip(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
