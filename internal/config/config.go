// Package config holds the service configuration for the performance layer.
// Defaults are applied here and at the process entry point, never inside the
// data layer.
package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-perf/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DecaySettings configures decay detection.
type DecaySettings struct {
	RecentWindow   int `yaml:"recent_window" validate:"gte=1"`
	BaselineWindow int `yaml:"baseline_window" validate:"gte=1"`
	// WinRateDropThreshold must be negative: it is the recent-minus-baseline
	// win rate delta below which decay is flagged.
	WinRateDropThreshold float64 `yaml:"win_rate_drop_threshold" validate:"lt=0"`
}

// Config is the full service configuration.
type Config struct {
	DatabasePath string        `yaml:"database_path" validate:"required"`
	Decay        DecaySettings `yaml:"decay"`
}

// DefaultConfig returns the standard configuration: the store under ./data
// and the stock decay windows.
func DefaultConfig() Config {
	return Config{
		DatabasePath: filepath.Join("data", "performance.db"),
		Decay: DecaySettings{
			RecentWindow:         20,
			BaselineWindow:       50,
			WinRateDropThreshold: -0.15,
		},
	}
}

// LoadConfig reads and validates a YAML configuration file. Fields left
// unset fall back to their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return nil
}
