package baseline

import (
	"fmt"
	"math"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
)

// CoverageFloor is the minimum fraction of non-missing samples per signal
// required to build a baseline; below this the build fails with
// InsufficientCoverage.
const CoverageFloor = 0.80

// Window optionally restricts Build to samples whose timestamp falls
// inside [Start, End]. The zero Window means "no filter".
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) active() bool { return !w.Start.IsZero() || !w.End.IsZero() }

// Build derives an immutable Profile from samples for one asset:
//  1. drop samples where IsFaulty
//  2. optionally restrict to a training window
//  3. require >=80% non-missing coverage per signal (missing = NaN sentinel)
//  4. compute mean/std/min/max/sample_count per signal
func Build(assetID string, samples []domain.RawSample, trainingWindow Window) (*Profile, error) {
	var healthy []domain.RawSample
	for _, s := range samples {
		if s.IsFaulty {
			continue
		}
		if trainingWindow.active() {
			if !trainingWindow.Start.IsZero() && s.Timestamp.Before(trainingWindow.Start) {
				continue
			}
			if !trainingWindow.End.IsZero() && s.Timestamp.After(trainingWindow.End) {
				continue
			}
		}
		healthy = append(healthy, s)
	}

	if len(healthy) == 0 {
		return nil, domainerr.New(domainerr.KindInsufficientData, "baseline: no healthy samples available")
	}

	profiles := make(map[string]SignalProfile, len(domain.Signals))
	total := len(healthy)
	for _, signal := range domain.Signals {
		var values []float64
		for _, s := range healthy {
			v := s.Value(signal)
			if math.IsNaN(v) {
				continue
			}
			values = append(values, v)
		}
		validRatio := float64(len(values)) / float64(total)
		if validRatio < CoverageFloor {
			return nil, domainerr.New(domainerr.KindInsufficientCoverage,
				fmt.Sprintf("baseline: signal %s coverage %.2f%% below floor %.0f%%", signal, validRatio*100, CoverageFloor*100))
		}
		profiles[signal] = computeSignalProfile(values)
	}

	start, end := healthy[0].Timestamp, healthy[0].Timestamp
	for _, s := range healthy {
		if s.Timestamp.Before(start) {
			start = s.Timestamp
		}
		if s.Timestamp.After(end) {
			end = s.Timestamp
		}
	}

	return &Profile{
		BaselineID: NewBaselineID(),
		AssetID:    assetID,
		CreatedAt:  time.Now().UTC(),
		TrainingWindow: TrainingWindow{
			Start:            start,
			End:              end,
			SampleCount:      total,
			ValidSampleRatio: validSampleRatio(healthy),
		},
		SignalProfiles: profiles,
	}, nil
}

func validSampleRatio(samples []domain.RawSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	valid := 0
	for _, s := range samples {
		ok := true
		for _, signal := range domain.Signals {
			if math.IsNaN(s.Value(signal)) {
				ok = false
				break
			}
		}
		if ok {
			valid++
		}
	}
	return float64(valid) / float64(len(samples))
}

func computeSignalProfile(values []float64) SignalProfile {
	n := float64(len(values))
	var sum float64
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / n

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n

	return SignalProfile{
		Mean:        mean,
		Std:         math.Sqrt(variance),
		Min:         min,
		Max:         max,
		SampleCount: len(values),
	}
}
