package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalysisConfig is the optional `.typecheck.yaml` a host can load before
// running the scope creator and inference engine: it doesn't change the
// lattice or narrowing rules, only which diagnostics are surfaced and
// which legacy shapes are still recognized.
type AnalysisConfig struct {
	// Diagnostics lists diagnostic codes to suppress, by their stable
	// string form (e.g. "PARSE_ERROR").
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`

	// LegacyReflectObject records whether goog.reflect.object-style
	// constructor casts should be recognized. The scope creator does not
	// read it: the cast form is recognized whatever its value.
	LegacyReflectObject bool `yaml:"legacyReflectObject"`
}

type DiagnosticsConfig struct {
	Suppress []string `yaml:"suppress"`
}

// DefaultAnalysisConfig matches the core's built-in behavior: every
// diagnostic code surfaces, and the goog.reflect.object cast form is
// recognized.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{LegacyReflectObject: true}
}

// LoadAnalysisConfig reads and parses a YAML config file. A missing file
// is not an error — callers get DefaultAnalysisConfig back, since the
// config is optional host tuning, not a required input to the core.
func LoadAnalysisConfig(path string) (AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading analysis config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing analysis config %s: %w", path, err)
	}
	return cfg, nil
}

// Suppressed reports whether code has been turned off by this config.
func (c AnalysisConfig) Suppressed(code string) bool {
	for _, s := range c.Diagnostics.Suppress {
		if s == code {
			return true
		}
	}
	return false
}
