package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// VolatilityRegime buckets current volatility relative to recent history.
type VolatilityRegime string

const (
	VolatilityLow     VolatilityRegime = "low"
	VolatilityMedium  VolatilityRegime = "medium"
	VolatilityHigh    VolatilityRegime = "high"
	VolatilityUnknown VolatilityRegime = "unknown"
)

// TrendRegime buckets trend strength derived from ADX.
type TrendRegime string

const (
	TrendRanging TrendRegime = "ranging"
	TrendWeak    TrendRegime = "weak_trend"
	TrendStrong  TrendRegime = "strong_trend"
	TrendUnknown TrendRegime = "unknown"
)

// Regime is a discrete label summarizing market volatility and trend strength
// at a point in time. Combined is the grouping key used for performance
// breakdowns, e.g. "high_strong_trend".
type Regime struct {
	Volatility string `yaml:"volatility"`
	Trend      string `yaml:"trend"`
	Combined   string `yaml:"combined"`
}

// NewRegime builds a Regime from its two categorical components.
func NewRegime(volatility VolatilityRegime, trend TrendRegime) Regime {
	return Regime{
		Volatility: string(volatility),
		Trend:      string(trend),
		Combined:   CombineLabel(volatility, trend),
	}
}

// CombineLabel joins the volatility and trend components into the combined
// regime key.
func CombineLabel(volatility VolatilityRegime, trend TrendRegime) string {
	return string(volatility) + "_" + string(trend)
}

// RegimeSnapshot is a point-in-time market-condition observation, recorded
// periodically and independently of any trade. Snapshots are append-only.
type RegimeSnapshot struct {
	ID         int64
	Timestamp  time.Time
	Pair       string
	Volatility string
	Trend      string
	Combined   string
	BBWidth    optional.Option[float64]
	ADX        optional.Option[float64]
	RSI        optional.Option[float64]
	CreatedAt  time.Time
}
