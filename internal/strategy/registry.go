// Package strategy is the central registry of strategy configurations. Each
// strategy defines its indicator parameters, signal thresholds, and risk
// settings in one place; execution-engine adapters read from here instead of
// hardcoding parameters.
package strategy

import (
	"sort"
	"strings"

	"github.com/rxtech-lab/argo-perf/pkg/errors"
)

// IndicatorParams holds the indicator periods a strategy is computed with.
type IndicatorParams struct {
	RSIPeriod  int     `yaml:"rsi_period"`
	TEMAPeriod int     `yaml:"tema_period"`
	BBWindow   int     `yaml:"bb_window"`
	BBStds     float64 `yaml:"bb_stds"`
}

// EntryRules holds the entry signal thresholds.
type EntryRules struct {
	RSIThreshold float64 `yaml:"rsi_threshold"`
}

// ExitRules holds the exit signal thresholds.
type ExitRules struct {
	RSIThreshold float64 `yaml:"rsi_threshold"`
}

// RiskSettings holds stop-loss and take-profit configuration. MinimalROI
// maps elapsed minutes (as string keys) to the return that closes the trade.
type RiskSettings struct {
	Stoploss     float64            `yaml:"stoploss"`
	TrailingStop bool               `yaml:"trailing_stop"`
	MinimalROI   map[string]float64 `yaml:"minimal_roi"`
}

// Config is a complete strategy definition.
type Config struct {
	Description        string          `yaml:"description"`
	Version            string          `yaml:"version"`
	Timeframe          string          `yaml:"timeframe"`
	StartupCandleCount int             `yaml:"startup_candle_count"`
	Indicators         IndicatorParams `yaml:"indicators"`
	Entry              EntryRules      `yaml:"entry"`
	Exit               ExitRules       `yaml:"exit"`
	Risk               RiskSettings    `yaml:"risk"`
}

// Registry maps strategy names to their configurations.
type Registry struct {
	configs map[string]Config
}

// NewRegistry creates a registry preloaded with the built-in strategies.
func NewRegistry() *Registry {
	registry := &Registry{
		configs: make(map[string]Config),
	}

	registry.Register("momentum_rsi_bb", Config{
		Description: "RSI + TEMA + Bollinger Bands momentum strategy. " +
			"Enters on oversold RSI recovery with TEMA confirmation below BB middle. " +
			"Exits on overbought RSI with TEMA weakening above BB middle.",
		Version:            "1.0",
		Timeframe:          "5m",
		StartupCandleCount: 30,
		Indicators: IndicatorParams{
			RSIPeriod:  14,
			TEMAPeriod: 9,
			BBWindow:   20,
			BBStds:     2.0,
		},
		Entry: EntryRules{
			RSIThreshold: 30,
		},
		Exit: ExitRules{
			RSIThreshold: 70,
		},
		Risk: RiskSettings{
			Stoploss:     -0.10,
			TrailingStop: false,
			MinimalROI: map[string]float64{
				"0":  0.04,
				"30": 0.02,
				"60": 0.01,
			},
		},
	})

	return registry
}

// Register adds or replaces a strategy configuration.
func (r *Registry) Register(name string, config Config) {
	r.configs[name] = config
}

// Get retrieves a strategy configuration by name. Unknown names fail with an
// error listing the registered alternatives.
func (r *Registry) Get(name string) (Config, error) {
	config, ok := r.configs[name]
	if !ok {
		return Config{}, errors.Newf(
			errors.ErrCodeStrategyNotFound,
			"strategy %q not found, available: %s",
			name,
			strings.Join(r.List(), ", "),
		)
	}

	return config, nil
}

// List returns the registered strategy names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
