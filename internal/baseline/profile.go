// Package baseline implements the per-asset healthy-operation baseline
// (C2): a builder that derives a BaselineProfile from a run of healthy
// RawSamples, plus read-only validation helpers.
package baseline

import (
	"time"

	"github.com/google/uuid"
)

// SignalProfile is the per-signal statistical summary held by a
// BaselineProfile.
type SignalProfile struct {
	Mean        float64
	Std         float64
	Min         float64
	Max         float64
	SampleCount int
}

// TrainingWindow records the provenance of the samples a baseline was
// built from.
type TrainingWindow struct {
	Start              time.Time
	End                time.Time
	SampleCount        int
	ValidSampleRatio   float64
}

// Profile is an immutable per-signal statistical description of an asset's
// healthy operation, built only from non-faulty samples.
type Profile struct {
	BaselineID      string
	AssetID         string
	CreatedAt       time.Time
	TrainingWindow  TrainingWindow
	SignalProfiles  map[string]SignalProfile
}

// NewBaselineID mints a fresh, unique baseline identifier.
func NewBaselineID() string {
	return "baseline_" + uuid.NewString()
}
