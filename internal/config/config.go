// Package config loads the engine's tunable parameters from a YAML file
// with safe defaults, following the same load/validate/default pattern
// used throughout this codebase's other config loaders.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the monitoring engine.
type Config struct {
	DebounceTicks         int     `yaml:"debounce_ticks"`
	WindowSize            int     `yaml:"window_size"`
	HistoryCapacity       int     `yaml:"history_capacity"`
	HealthyScoreThreshold float64 `yaml:"healthy_score_threshold"`
	FaultScoreThreshold   float64 `yaml:"fault_score_threshold"`
	BaselineTolerance     float64 `yaml:"baseline_tolerance"`

	Detector DetectorConfig `yaml:"detector"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

// DetectorConfig holds the isolation-forest hyperparameters.
type DetectorConfig struct {
	Contamination float64 `yaml:"contamination"`
	NEstimators   int     `yaml:"n_estimators"`
	RandomState   int64   `yaml:"random_state"`
}

// StoreConfig configures the external point-writer.
type StoreConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration with every default named in the
// external interface contract.
func Default() Config {
	return Config{
		DebounceTicks:         2,
		WindowSize:            100,
		HistoryCapacity:       1000,
		HealthyScoreThreshold: 0.65,
		FaultScoreThreshold:   0.5,
		BaselineTolerance:     0.10,
		Detector: DetectorConfig{
			Contamination: 0.05,
			NEstimators:   150,
			RandomState:   42,
		},
		Store: StoreConfig{
			MaxOpenConns:    10,
			ConnMaxLifetime: "30m",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads a YAML config file at path, overlaying it on Default().
// A missing file is not an error: Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the loaded configuration for internally-consistent
// bounds.
func (c Config) Validate() error {
	if c.DebounceTicks < 1 {
		return fmt.Errorf("config: debounce_ticks must be >= 1, got %d", c.DebounceTicks)
	}
	if c.WindowSize < 10 || c.WindowSize > 200 {
		return fmt.Errorf("config: window_size %d outside [10,200]", c.WindowSize)
	}
	if c.HistoryCapacity < c.WindowSize {
		return fmt.Errorf("config: history_capacity %d must be >= window_size %d", c.HistoryCapacity, c.WindowSize)
	}
	if c.HealthyScoreThreshold <= 0 || c.HealthyScoreThreshold > 1 {
		return fmt.Errorf("config: healthy_score_threshold %.2f outside (0,1]", c.HealthyScoreThreshold)
	}
	if c.FaultScoreThreshold <= 0 || c.FaultScoreThreshold > 1 {
		return fmt.Errorf("config: fault_score_threshold %.2f outside (0,1]", c.FaultScoreThreshold)
	}
	if c.BaselineTolerance < 0 {
		return fmt.Errorf("config: baseline_tolerance must be >= 0, got %.2f", c.BaselineTolerance)
	}
	if c.Detector.Contamination <= 0 || c.Detector.Contamination >= 1 {
		return fmt.Errorf("config: detector.contamination %.3f outside (0,1)", c.Detector.Contamination)
	}
	if c.Detector.NEstimators < 1 {
		return fmt.Errorf("config: detector.n_estimators must be >= 1, got %d", c.Detector.NEstimators)
	}
	return nil
}
