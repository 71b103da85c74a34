// Package synth is a digital-twin sensor simulator: it produces synthetic
// RawSample streams for an induction-motor-like asset, either healthy or
// degraded by an injected fault profile. It does not claim to read real
// sensors; it exists so the rest of the pipeline can be exercised
// end-to-end without physical hardware.
package synth

import (
	"math"
	"math/rand"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// Nominal grid characteristics the healthy signal distribution is
// centered on.
const (
	NominalVoltageV = 230.0
	NominalCurrentA = 15.0
	PFHealthyMin    = 0.88
	PFHealthyMax    = 0.96
	VibrationBaseG  = 0.15
)

// FaultKind enumerates the injectable fault shapes.
type FaultKind string

const (
	FaultSpike   FaultKind = "SPIKE"
	FaultDrift   FaultKind = "DRIFT"
	FaultJitter  FaultKind = "JITTER"
	FaultDefault FaultKind = "DEFAULT"
)

// Severity enumerates how strongly a fault perturbs the signal
// distribution.
type Severity string

const (
	SeverityMild   Severity = "MILD"
	SeverityMedium Severity = "MEDIUM"
	SeveritySevere Severity = "SEVERE"
)

func severityMagnitude(s Severity) float64 {
	switch s {
	case SeverityMild:
		return 0.3
	case SeverityMedium:
		return 0.6
	case SeveritySevere:
		return 1.0
	default:
		return 0.3
	}
}

// Profile configures one generator: either healthy (Kind == "") or a
// specific fault injection.
type Profile struct {
	Kind     FaultKind
	Severity Severity
}

// Healthy is the zero-value fault profile: no injected degradation.
var Healthy = Profile{}

// Generator produces deterministic synthetic samples for one asset from
// a seeded RNG, following a configured fault Profile.
type Generator struct {
	assetID string
	profile Profile
	rng     *rand.Rand
}

// New returns a Generator for assetID seeded deterministically, so
// repeated calibration runs with the same seed reproduce the same data.
func New(assetID string, profile Profile, seed int64) *Generator {
	return &Generator{assetID: assetID, profile: profile, rng: rand.New(rand.NewSource(seed))}
}

// SetProfile reconfigures the fault injection without resetting the RNG
// stream, so samples produced after the switch continue the same
// deterministic sequence. The lifecycle workers do not call it; each
// worker builds its own Generator.
func (g *Generator) SetProfile(p Profile) { g.profile = p }

// Next produces one sample timestamped at ts.
func (g *Generator) Next(ts time.Time) domain.RawSample {
	mag := severityMagnitude(g.profile.Severity)

	voltage := g.voltage(mag)
	current := g.current(mag)
	pf := g.powerFactor(mag)
	vibration := g.vibration(mag)

	return domain.RawSample{
		AssetID:     g.assetID,
		Timestamp:   ts.UTC(),
		VoltageV:    voltage,
		CurrentA:    current,
		PowerFactor: pf,
		VibrationG:  vibration,
	}
}

// Burst produces n samples spread evenly across span, ending at end.
func (g *Generator) Burst(n int, end time.Time, span time.Duration) []domain.RawSample {
	if n <= 0 {
		return nil
	}
	out := make([]domain.RawSample, n)
	step := span / time.Duration(n)
	start := end.Add(-span)
	for i := 0; i < n; i++ {
		out[i] = g.Next(start.Add(time.Duration(i) * step))
	}
	return out
}

// Window produces n samples spaced evenly by spacing, ending at end —
// the 10ms-spacing monitoring window shape used by the lifecycle
// workers.
func (g *Generator) Window(n int, end time.Time, spacing time.Duration) []domain.RawSample {
	return g.Burst(n, end, spacing*time.Duration(n))
}

func (g *Generator) voltage(mag float64) float64 {
	noise := g.rng.NormFloat64() * 2.0
	v := NominalVoltageV + noise

	switch g.profile.Kind {
	case FaultSpike, FaultDefault:
		v += mag * 50
	case FaultDrift:
		v += mag * 20
	case FaultJitter:
		v = NominalVoltageV + g.rng.NormFloat64()*2.0*(1+mag*3)
	}
	return math.Max(0, v)
}

func (g *Generator) current(mag float64) float64 {
	noise := g.rng.NormFloat64() * 1.0
	c := NominalCurrentA + noise

	switch g.profile.Kind {
	case FaultSpike, FaultDefault:
		c += mag * 10
	case FaultDrift:
		c += mag * 5
	case FaultJitter:
		c = NominalCurrentA + g.rng.NormFloat64()*1.0*(1+mag*3)
	}
	return math.Max(0, c)
}

func (g *Generator) powerFactor(mag float64) float64 {
	healthy := PFHealthyMin + g.rng.Float64()*(PFHealthyMax-PFHealthyMin)
	if g.profile.Kind == "" {
		return clip01(healthy)
	}

	switch g.profile.Kind {
	case FaultSpike, FaultDefault, FaultDrift:
		degraded := 0.55 + g.rng.Float64()*0.15
		pf := healthy - (healthy-degraded)*mag
		return clip01(pf)
	default: // JITTER keeps the healthy mean
		return clip01(healthy)
	}
}

func (g *Generator) vibration(mag float64) float64 {
	noiseStd := 0.03
	base := VibrationBaseG

	switch g.profile.Kind {
	case FaultSpike:
		base = VibrationBaseG * (1 + mag*4)
		noiseStd = 0.05
	case FaultDrift, FaultDefault:
		base = VibrationBaseG * (1 + mag*2)
	case FaultJitter:
		noiseStd = 0.03 * (1 + mag*6)
	}

	vibration := base + g.rng.NormFloat64()*noiseStd

	spikeProbability := 0.02 * (1 + mag)
	if g.profile.Kind != "" && g.rng.Float64() < spikeProbability {
		vibration += (0.5 + g.rng.Float64()*0.5) * base
	}
	return math.Max(0, vibration)
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
