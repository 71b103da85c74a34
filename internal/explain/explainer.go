// Package explain generates human-readable, template-bounded reasons
// behind a health assessment (C6): "Vibration at 0.45g exceeds observed
// maximum (0.20g)" rather than free-form text. Every explanation cites both the
// observed value and the baseline reference it was compared against.
package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// epsilonRatio ignores deviations too small to matter: a relative
// difference from the baseline mean below this fraction is dropped even
// if the raw z-score would otherwise qualify.
const epsilonRatio = 0.01

// zScoreFloor is the minimum |z| required for a feature to be considered
// significant at all.
const zScoreFloor = 1.5

// signalLabels gives the human-readable name for each canonical signal.
var signalLabels = map[string]string{
	domain.SignalVoltage:   "Voltage",
	domain.SignalCurrent:   "Current",
	domain.SignalPowerFact: "Power Factor",
	domain.SignalVibration: "Vibration",
}

// signalUnits gives the display unit for each canonical signal.
var signalUnits = map[string]string{
	domain.SignalVoltage:   "V",
	domain.SignalCurrent:   "A",
	domain.SignalPowerFact: "",
	domain.SignalVibration: "g",
}

type candidate struct {
	signal string
	value  float64
	mean   float64
	std    float64
	min    float64
	max    float64
	z      float64
}

// Explain ranks the sample's signals by |z-score| against the asset's
// baseline and returns up to the top 3 significant deviations as fixed
// Explanation templates. Only MODERATE/HIGH/CRITICAL risk levels should
// request explanations; LOW returns an empty slice from its caller
// instead of calling this, but Explain itself has no risk-level
// dependency.
func Explain(sample domain.RawSample, profile *baseline.Profile) []domain.Explanation {
	var candidates []candidate
	for _, signal := range domain.Signals {
		sp, ok := profile.SignalProfiles[signal]
		if !ok {
			continue
		}
		value := sample.Value(signal)

		if sp.Mean != 0 && math.Abs(value-sp.Mean)/math.Abs(sp.Mean) < epsilonRatio {
			continue
		}

		std := sp.Std
		var z float64
		if std == 0 {
			z = 0
		} else {
			z = (value - sp.Mean) / std
		}
		if math.Abs(z) < zScoreFloor {
			continue
		}

		candidates = append(candidates, candidate{
			signal: signal, value: value, mean: sp.Mean, std: std,
			min: sp.Min, max: sp.Max, z: z,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].z) > math.Abs(candidates[j].z)
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	var out []domain.Explanation
	for _, c := range candidates {
		reason, ok := template(c)
		if !ok {
			continue
		}
		out = append(out, domain.Explanation{
			Reason:          reason,
			RelatedFeatures: []string{c.signal},
			ConfidenceScore: confidence(c.z),
		})
	}
	return out
}

// template renders one of the five fixed explanation templates for a
// candidate deviation. The second return value is false when none of
// the templates fire (|z| significant but not past the ±2 bound and not
// outside the observed min/max).
func template(c candidate) (string, bool) {
	label := signalLabels[c.signal]
	unit := signalUnits[c.signal]

	switch {
	case c.value > c.max:
		return fmt.Sprintf("%s at %s%s exceeds observed maximum (%s%s)", label, formatValue(c.value), unit, formatValue(c.max), unit), true
	case c.value < c.min:
		return fmt.Sprintf("%s at %s%s is below observed minimum (%s%s)", label, formatValue(c.value), unit, formatValue(c.min), unit), true
	case c.z > 2:
		return fmt.Sprintf("%s at %s%s is significantly above baseline (%s%s)", label, formatValue(c.value), unit, formatValue(c.mean), unit), true
	case c.z < -2:
		return fmt.Sprintf("%s at %s%s is significantly below baseline (%s%s)", label, formatValue(c.value), unit, formatValue(c.mean), unit), true
	default:
		return "", false
	}
}

func confidence(z float64) float64 {
	v := 0.5 + 0.1*math.Abs(z)
	if v > 0.99 {
		return 0.99
	}
	return v
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// SystemsNominal is the canned explanation offered on demand for LOW-risk
// reports that want an explicit "all clear" message rather than an empty
// explanation list.
var SystemsNominal = domain.Explanation{
	Reason:          "All monitored signals within baseline tolerance",
	ConfidenceScore: 0.99,
}
