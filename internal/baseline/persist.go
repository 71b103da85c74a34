package baseline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// persistedProfile is the self-describing on-disk record for a Profile.
// Field names are explicit (not derived from Go identifiers) so the format
// stays stable independent of internal struct layout changes.
type persistedProfile struct {
	BaselineID     string                          `yaml:"baseline_id"`
	AssetID        string                          `yaml:"asset_id"`
	CreatedAt      time.Time                       `yaml:"created_at"`
	TrainingWindow persistedTrainingWindow         `yaml:"training_window"`
	SignalProfiles map[string]persistedSignalProfile `yaml:"signal_profiles"`
}

type persistedTrainingWindow struct {
	Start            time.Time `yaml:"start"`
	End              time.Time `yaml:"end"`
	SampleCount      int       `yaml:"sample_count"`
	ValidSampleRatio float64   `yaml:"valid_sample_ratio"`
}

type persistedSignalProfile struct {
	Mean        float64 `yaml:"mean"`
	Std         float64 `yaml:"std"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	SampleCount int     `yaml:"sample_count"`
}

func toPersisted(p *Profile) persistedProfile {
	sp := make(map[string]persistedSignalProfile, len(p.SignalProfiles))
	for k, v := range p.SignalProfiles {
		sp[k] = persistedSignalProfile{
			Mean: v.Mean, Std: v.Std, Min: v.Min, Max: v.Max, SampleCount: v.SampleCount,
		}
	}
	return persistedProfile{
		BaselineID: p.BaselineID,
		AssetID:    p.AssetID,
		CreatedAt:  p.CreatedAt,
		TrainingWindow: persistedTrainingWindow{
			Start:            p.TrainingWindow.Start,
			End:              p.TrainingWindow.End,
			SampleCount:      p.TrainingWindow.SampleCount,
			ValidSampleRatio: p.TrainingWindow.ValidSampleRatio,
		},
		SignalProfiles: sp,
	}
}

func fromPersisted(pp persistedProfile) *Profile {
	sp := make(map[string]SignalProfile, len(pp.SignalProfiles))
	for k, v := range pp.SignalProfiles {
		sp[k] = SignalProfile{Mean: v.Mean, Std: v.Std, Min: v.Min, Max: v.Max, SampleCount: v.SampleCount}
	}
	return &Profile{
		BaselineID: pp.BaselineID,
		AssetID:    pp.AssetID,
		CreatedAt:  pp.CreatedAt,
		TrainingWindow: TrainingWindow{
			Start:            pp.TrainingWindow.Start,
			End:              pp.TrainingWindow.End,
			SampleCount:      pp.TrainingWindow.SampleCount,
			ValidSampleRatio: pp.TrainingWindow.ValidSampleRatio,
		},
		SignalProfiles: sp,
	}
}

// Marshal serialises a Profile to its self-describing YAML form. Every
// field round-trips bit-identically (within float64 YAML encoding
// precision) through Unmarshal.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(toPersisted(p))
}

// Unmarshal parses a Profile previously produced by Marshal.
func Unmarshal(data []byte) (*Profile, error) {
	var pp persistedProfile
	if err := yaml.Unmarshal(data, &pp); err != nil {
		return nil, fmt.Errorf("baseline: parse: %w", err)
	}
	return fromPersisted(pp), nil
}

// Save writes a Profile to path in the self-describing YAML format.
func Save(p *Profile, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and parses a Profile previously written by Save.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("baseline: read %s: %w", path, err)
	}
	return Unmarshal(data)
}
