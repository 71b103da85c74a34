package baseline

import (
	"fmt"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// ValidateProfile runs structural checks against p and returns every
// violation found; it never mutates or self-heals the profile.
func ValidateProfile(p *Profile) []error {
	var errs []error
	if len(p.SignalProfiles) == 0 {
		errs = append(errs, fmt.Errorf("baseline %s: no signal profiles", p.BaselineID))
	}
	for signal, sp := range p.SignalProfiles {
		if sp.Std < 0 {
			errs = append(errs, fmt.Errorf("baseline %s: signal %s has negative std %.4f", p.BaselineID, signal, sp.Std))
		}
		if sp.Min > sp.Max {
			errs = append(errs, fmt.Errorf("baseline %s: signal %s min %.4f > max %.4f", p.BaselineID, signal, sp.Min, sp.Max))
		}
		if sp.SampleCount <= 0 {
			errs = append(errs, fmt.Errorf("baseline %s: signal %s has non-positive sample_count %d", p.BaselineID, signal, sp.SampleCount))
		}
	}
	return errs
}

// SignalViolation records which signal(s) of one sample fell outside the
// k-sigma band of the baseline.
type SignalViolation struct {
	SampleIndex int
	Signal      string
	Value       float64
	Mean        float64
	Std         float64
}

// CheckResult summarises CheckAgainstBaseline output.
type CheckResult struct {
	PassRate   float64
	Violations []SignalViolation
}

// CheckAgainstBaseline reports, for each sample, which signals fall outside
// mean +/- k*std. k defaults to 3 when <= 0.
func CheckAgainstBaseline(samples []domain.RawSample, p *Profile, k float64) CheckResult {
	if k <= 0 {
		k = 3
	}
	var violations []SignalViolation
	cleanSamples := 0
	for i, s := range samples {
		clean := true
		for _, signal := range domain.Signals {
			sp, ok := p.SignalProfiles[signal]
			if !ok {
				continue
			}
			v := s.Value(signal)
			band := k * sp.Std
			if v < sp.Mean-band || v > sp.Mean+band {
				clean = false
				violations = append(violations, SignalViolation{
					SampleIndex: i,
					Signal:      signal,
					Value:       v,
					Mean:        sp.Mean,
					Std:         sp.Std,
				})
			}
		}
		if clean {
			cleanSamples++
		}
	}
	passRate := 1.0
	if len(samples) > 0 {
		passRate = float64(cleanSamples) / float64(len(samples))
	}
	return CheckResult{PassRate: passRate, Violations: violations}
}
