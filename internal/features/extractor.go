// Package features implements the batch feature extractor (C1): a pure
// mapping from a window of raw samples to a fixed-length statistical
// feature vector. No I/O, no package-level state — same window always
// produces the same vector.
package features

import (
	"fmt"
	"math"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// Extract computes the 16-dimensional FeatureVector for w: for each of the
// four signals, population mean/std/peak-to-peak/rms over the window.
func Extract(w domain.Window) (domain.FeatureVector, error) {
	n := len(w.Samples)
	if n < domain.MinWindowSize {
		return nil, fmt.Errorf("features: window too small (%d < %d)", n, domain.MinWindowSize)
	}

	fv := make(domain.FeatureVector, len(domain.Signals)*4)
	for _, signal := range domain.Signals {
		values := make([]float64, n)
		for i, s := range w.Samples {
			values[i] = s.Value(signal)
		}
		mean, std, ptp, rms := stats(values)
		fv[signal+"_"+domain.StatMean] = mean
		fv[signal+"_"+domain.StatStd] = std
		fv[signal+"_"+domain.StatPeakToPeak] = ptp
		fv[signal+"_"+domain.StatRMS] = rms
	}
	return fv, nil
}

// ExtractMultiWindow slices a longer stream into contiguous non-overlapping
// windows of size n and extracts one FeatureVector per complete window;
// an incomplete trailing run of samples is discarded.
func ExtractMultiWindow(assetID string, samples []domain.RawSample, n int) ([]domain.FeatureVector, error) {
	windows := domain.Windows(assetID, samples, n)
	out := make([]domain.FeatureVector, 0, len(windows))
	for _, w := range windows {
		fv, err := Extract(w)
		if err != nil {
			return nil, err
		}
		out = append(out, fv)
	}
	return out, nil
}

// stats computes population mean, std (ddof=0), peak-to-peak, and rms over
// values: one pass for sum, sum of squares and min/max, then a second pass
// for the variance.
func stats(values []float64) (mean, std, peakToPeak, rms float64) {
	n := float64(len(values))

	var sum, sumSq float64
	min, max := values[0], values[0]
	for _, x := range values {
		sum += x
		sumSq += x * x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}

	mean = sum / n
	rms = math.Sqrt(sumSq / n)
	peakToPeak = max - min

	var variance float64
	for _, x := range values {
		d := x - mean
		variance += d * d
	}
	variance /= n
	std = math.Sqrt(variance)

	return mean, std, peakToPeak, rms
}
