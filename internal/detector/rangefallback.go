package detector

import (
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// rangeFloor bounds the observed min/max range to avoid divide-by-zero.
const rangeFloor = 1e-3

// RangeScore computes a tolerance-based anomaly score for one sample
// against a baseline, used when no trained Detector exists for an asset.
// Grounded on the reference repo's MAD/range anomaly checker, adapted to
// a fixed deviation-to-score piecewise mapping.
func RangeScore(sample domain.RawSample, profile *baseline.Profile) float64 {
	var deviations []float64
	for _, signal := range domain.Signals {
		sp, ok := profile.SignalProfiles[signal]
		if !ok {
			continue
		}
		rng := sp.Max - sp.Min
		if rng < rangeFloor {
			rng = rangeFloor
		}
		x := sample.Value(signal)
		deviation := max3(0, (sp.Min-x)/rng, (x-sp.Max)/rng)
		deviations = append(deviations, deviation)
	}
	if len(deviations) == 0 {
		return 0
	}

	var sum float64
	for _, d := range deviations {
		sum += d
	}
	avgDeviation := sum / float64(len(deviations))

	return deviationToScore(avgDeviation)
}

// deviationToScore maps the averaged deviation into calibrated bands:
//   deviation < 0.3  -> [0, 0.15]
//   [0.3, 1.0)       -> [0.15, 0.36]
//   [1.0, 2.5)       -> [0.36, 0.66]
//   >= 2.5           -> [0.66, 0.95]
func deviationToScore(deviation float64) float64 {
	switch {
	case deviation < 0.3:
		return clip(lerp(deviation, 0, 0.3, 0, 0.15), 0, 0.95)
	case deviation < 1.0:
		return lerp(deviation, 0.3, 1.0, 0.15, 0.36)
	case deviation < 2.5:
		return lerp(deviation, 1.0, 2.5, 0.36, 0.66)
	default:
		// Asymptotically approach 0.95 as deviation grows past 2.5.
		excess := deviation - 2.5
		score := 0.66 + (0.95-0.66)*(1-1/(1+excess))
		return clip(score, 0.66, 0.95)
	}
}

func lerp(x, xLo, xHi, yLo, yHi float64) float64 {
	if xHi == xLo {
		return yLo
	}
	t := (x - xLo) / (xHi - xLo)
	return yLo + t*(yHi-yLo)
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
