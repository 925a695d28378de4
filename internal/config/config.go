// Package config loads the comparison configuration: which dimensions are
// matched across batches, which metrics are reported, which filters narrow
// the data, and how the summary is presented.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds one comparison setup.
type Config struct {
	Matchers []MatcherConfig `yaml:"matchers"`
	Metrics  []MetricConfig  `yaml:"metrics"`
	Filters  []FilterConfig  `yaml:"filters,omitempty"`
	Display  DisplayConfig   `yaml:"display"`
}

// MatcherConfig pins one field to be identical across compared batches.
// Tolerance 0 requires exact matches; a fractional value allows a
// ± percentage band around the reference value.
type MatcherConfig struct {
	Field     string  `yaml:"field"`
	Tolerance float64 `yaml:"tolerance"`
	Enabled   bool    `yaml:"enabled"`
}

// MetricConfig selects one field to report per batch.
type MetricConfig struct {
	Field   string `yaml:"field"`
	Enabled bool   `yaml:"enabled"`
}

// FilterConfig restricts one field to a value range. Batch names the batch
// it applies to; empty means every batch. Min/Max are optional bounds.
type FilterConfig struct {
	Batch   string   `yaml:"batch"`
	Field   string   `yaml:"field"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Enabled bool     `yaml:"enabled"`
}

// DisplayConfig controls summary presentation.
type DisplayConfig struct {
	// RelativeRatios reports each batch as a ratio against the reference
	// batch instead of absolute means.
	RelativeRatios bool `yaml:"relative_ratios"`
	// GeometricMean aggregates ratios with a geometric mean instead of an
	// arithmetic one.
	GeometricMean bool `yaml:"geometric_mean"`
	// RDMode suppresses matcher and reference narration.
	RDMode bool `yaml:"rd_mode"`
	// ReferenceBatch names the reference batch. Empty selects the first
	// loaded batch; an unknown name means no reference.
	ReferenceBatch string `yaml:"reference_batch"`
	// LikelyLossless overrides the lossless auto-detection when set.
	LikelyLossless *bool `yaml:"likely_lossless"`
	// HideBatches lists batch names excluded from the rendered summary.
	HideBatches []string `yaml:"hide_batches,omitempty"`
}

// DefaultConfig returns the setup used when no config file is given:
// match on the source image, report encoded size and encoding duration.
func DefaultConfig() *Config {
	return &Config{
		Matchers: []MatcherConfig{
			{Field: "source_image_name", Tolerance: 0, Enabled: true},
		},
		Metrics: []MetricConfig{
			{Field: "encoded_size", Enabled: true},
			{Field: "encoding_duration", Enabled: true},
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return loaded, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
