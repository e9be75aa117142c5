package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// ExitReason identifies why a trade was closed.
type ExitReason string

const (
	// ExitReasonROI means the trade hit its profit target.
	ExitReasonROI ExitReason = "roi"
	// ExitReasonStopLoss means the stop loss was triggered.
	ExitReasonStopLoss ExitReason = "stoploss"
	// ExitReasonExitSignal means the strategy's exit condition fired.
	ExitReasonExitSignal ExitReason = "exit_signal"
	// ExitReasonForceExit means the trade was closed externally.
	ExitReasonForceExit ExitReason = "force_exit"
)

// IndicatorSnapshot carries the indicator values observed at a single point in
// time. Values are produced by an external indicator pipeline and passed
// through opaquely; any subset may be absent and is stored as NULL.
type IndicatorSnapshot struct {
	RSI       optional.Option[float64]
	TEMA      optional.Option[float64]
	BBPercent optional.Option[float64]
	BBWidth   optional.Option[float64]
	ADX       optional.Option[float64]
}

// TradeRecord is one row of the trade log. Entry fields are written exactly
// once when the trade opens and never mutated. Exit fields and the derived
// performance fields are written exactly once when the trade closes. A record
// is open iff ExitTime is absent; closed is terminal.
type TradeRecord struct {
	ID       int64
	TradeID  string
	Pair     string
	Strategy string

	EntryTime       time.Time
	EntryPrice      float64
	EntryIndicators IndicatorSnapshot
	EntryRegime     Regime

	ExitTime       optional.Option[time.Time]
	ExitPrice      optional.Option[float64]
	ExitReason     optional.Option[string]
	ExitIndicators IndicatorSnapshot
	ExitRegime     Regime

	PnLAbsolute     optional.Option[float64]
	PnLPercent      optional.Option[float64]
	DurationMinutes optional.Option[float64]
	RegimeChanged   optional.Option[bool]

	CreatedAt time.Time
}

// IsOpen reports whether the trade has not yet been closed.
func (t *TradeRecord) IsOpen() bool {
	return t.ExitTime.IsNone()
}
