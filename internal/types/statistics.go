package types

import "math"

// SummaryStatistics aggregates the performance of a set of closed trades.
// A win is a trade with positive P&L percent; a zero-P&L trade counts as a
// loss. Percentage fields are rounded to 4 decimal places, the duration to 2.
type SummaryStatistics struct {
	TotalTrades int `yaml:"total_trades"`
	Wins        int `yaml:"wins"`
	Losses      int `yaml:"losses"`
	// WinRate is wins / total trades, 0 when there are no trades.
	WinRate   float64 `yaml:"win_rate"`
	AvgWinPct float64 `yaml:"avg_win_pct"`
	// AvgLossPct is negative or zero.
	AvgLossPct float64 `yaml:"avg_loss_pct"`
	// ExpectancyPct is the probability-weighted expected return per trade:
	// win_rate * avg_win + (1 - win_rate) * avg_loss.
	ExpectancyPct float64 `yaml:"expectancy_pct"`
	// ProfitFactor is gross wins / |gross losses|. +Inf when there are wins
	// but no losses, 0 when there are neither.
	ProfitFactor   float64 `yaml:"profit_factor"`
	AvgDurationMin float64 `yaml:"avg_duration_min"`
}

// DecayReport compares a strategy's recent performance window against a
// strictly older baseline window.
type DecayReport struct {
	HasEnoughData     bool              `yaml:"has_enough_data"`
	TotalClosedTrades int               `yaml:"total_closed_trades"`
	Needed            int               `yaml:"needed,omitempty"`
	Recent            SummaryStatistics `yaml:"recent,omitempty"`
	Baseline          SummaryStatistics `yaml:"baseline,omitempty"`
	WinRateDelta      float64           `yaml:"win_rate_delta"`
	ExpectancyDelta   float64           `yaml:"expectancy_delta"`
	DecayDetected     bool              `yaml:"decay_detected"`
	Reasons           []string          `yaml:"reasons,omitempty"`
	Recommendation    string            `yaml:"recommendation"`
}

// NewSummaryStatistics computes summary statistics from closed-trade P&L
// percentages and holding durations. Both slices may be empty; the result is
// a well-formed zero-valued summary in that case. Durations may be shorter
// than pnls when some trades carry no duration.
func NewSummaryStatistics(pnls []float64, durations []float64) SummaryStatistics {
	if len(pnls) == 0 {
		return SummaryStatistics{}
	}

	var wins, losses []float64
	for _, p := range pnls {
		if p > 0 {
			wins = append(wins, p)
		} else {
			losses = append(losses, p)
		}
	}

	total := len(pnls)
	winRate := float64(len(wins)) / float64(total)
	avgWin := mean(wins)
	avgLoss := mean(losses)
	expectancy := winRate*avgWin + (1-winRate)*avgLoss

	grossWins := sum(wins)
	grossLosses := math.Abs(sum(losses))

	var profitFactor float64
	switch {
	case grossLosses > 0:
		profitFactor = grossWins / grossLosses
	case grossWins > 0:
		profitFactor = math.Inf(1)
	default:
		profitFactor = 0
	}

	return SummaryStatistics{
		TotalTrades:    total,
		Wins:           len(wins),
		Losses:         len(losses),
		WinRate:        round4(winRate),
		AvgWinPct:      round4(avgWin),
		AvgLossPct:     round4(avgLoss),
		ExpectancyPct:  round4(expectancy),
		ProfitFactor:   round4(profitFactor),
		AvgDurationMin: round2(mean(durations)),
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}

	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return sum(values) / float64(len(values))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
