// Package regime classifies market regimes from a volatility measure
// (Bollinger Band width relative to recent history) and a trend-strength
// measure (ADX). Every trade is contextualized with the regime prevailing at
// entry and exit so performance can be tracked per market condition.
//
// All functions are pure; the package holds no state.
package regime

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-perf/internal/types"
)

const (
	// DefaultLowPercentile is the history percentile below which volatility
	// is classified as low.
	DefaultLowPercentile = 25.0
	// DefaultHighPercentile is the history percentile above which volatility
	// is classified as high.
	DefaultHighPercentile = 75.0

	// ADX below this value indicates a ranging market.
	weakTrendADX = 20.0
	// ADX at or above this value indicates a strong trend.
	strongTrendADX = 30.0
)

// ClassifyVolatility buckets the current Bollinger Band width against the
// 25th/75th percentiles of its recent history. Histories with fewer than 2
// observations have undefined percentile boundaries and classify as unknown.
func ClassifyVolatility(current float64, history []float64) types.VolatilityRegime {
	return ClassifyVolatilityBetween(current, history, DefaultLowPercentile, DefaultHighPercentile)
}

// ClassifyVolatilityBetween is ClassifyVolatility with caller-chosen
// percentile boundaries.
func ClassifyVolatilityBetween(current float64, history []float64, lowPct, highPct float64) types.VolatilityRegime {
	if len(history) < 2 {
		return types.VolatilityUnknown
	}

	lowThreshold := Percentile(history, lowPct)
	highThreshold := Percentile(history, highPct)

	switch {
	case current < lowThreshold:
		return types.VolatilityLow
	case current > highThreshold:
		return types.VolatilityHigh
	default:
		return types.VolatilityMedium
	}
}

// ClassifyTrend buckets trend strength by ADX value. The boundaries are
// closed on the upper side: 20 is a weak trend, 30 a strong one. An absent or
// NaN input classifies as unknown.
func ClassifyTrend(adx optional.Option[float64]) types.TrendRegime {
	if adx.IsNone() {
		return types.TrendUnknown
	}

	value := adx.Unwrap()
	if math.IsNaN(value) {
		return types.TrendUnknown
	}

	switch {
	case value < weakTrendADX:
		return types.TrendRanging
	case value < strongTrendADX:
		return types.TrendWeak
	default:
		return types.TrendStrong
	}
}

// ClassifyRegime composes the volatility and trend classification into a
// full regime label.
func ClassifyRegime(bbWidth float64, bbWidthHistory []float64, adx optional.Option[float64]) types.Regime {
	volatility := ClassifyVolatility(bbWidth, bbWidthHistory)
	trend := ClassifyTrend(adx)

	return types.NewRegime(volatility, trend)
}
