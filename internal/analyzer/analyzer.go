// Package analyzer computes performance statistics over the trade log:
// aggregate summaries, per-regime breakdowns, and a two-window decay
// heuristic comparing recent performance against a historical baseline. The
// analyzer never mutates the store.
package analyzer

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-perf/internal/logger"
	"github.com/rxtech-lab/argo-perf/internal/store"
	"github.com/rxtech-lab/argo-perf/internal/types"
)

// DecayConfig holds the decay-detection windows and trigger thresholds. The
// thresholds are heuristics, not statistical tests; the defaults are the
// values the decision rules were tuned with.
type DecayConfig struct {
	// RecentWindow is the number of most recent closed trades evaluated.
	RecentWindow int
	// BaselineWindow is the number of strictly older trades compared against.
	BaselineWindow int
	// WinRateDropThreshold flags decay when the recent-minus-baseline win
	// rate delta falls below it. Negative; default -0.15.
	WinRateDropThreshold float64
	// BreakevenProfitFactor is the profit-factor level whose downward
	// crossing flags decay. Default 1.0.
	BreakevenProfitFactor float64
}

// DefaultDecayConfig returns the standard decay-detection parameters.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		RecentWindow:          20,
		BaselineWindow:        50,
		WinRateDropThreshold:  -0.15,
		BreakevenProfitFactor: 1.0,
	}
}

// PerformanceAnalyzer runs read-only reporting queries against the store.
type PerformanceAnalyzer struct {
	store  *store.Store
	logger *logger.Logger
}

// NewPerformanceAnalyzer creates an analyzer reading from the given store.
func NewPerformanceAnalyzer(store *store.Store, logger *logger.Logger) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{
		store:  store,
		logger: logger,
	}
}

// Summary aggregates all closed trades, optionally filtered by strategy and
// entry regime. An empty or fully filtered-out store yields a well-formed
// zero-valued summary.
func (a *PerformanceAnalyzer) Summary(strategy, regime optional.Option[string]) (types.SummaryStatistics, error) {
	db, err := a.store.DB()
	if err != nil {
		return types.SummaryStatistics{}, err
	}

	query := a.store.Builder().
		Select("pnl_percent", "duration_minutes").
		From("trade_log").
		Where("exit_time IS NOT NULL")

	if strategy.IsSome() {
		query = query.Where(squirrel.Eq{"strategy": strategy.Unwrap()})
	}

	if regime.IsSome() {
		query = query.Where(squirrel.Eq{"entry_regime": regime.Unwrap()})
	}

	rows, err := query.RunWith(db).Query()
	if err != nil {
		return types.SummaryStatistics{}, fmt.Errorf("failed to query closed trades: %w", err)
	}
	defer rows.Close()

	trades, err := collectClosedTrades(rows)
	if err != nil {
		return types.SummaryStatistics{}, err
	}

	return summarize(trades), nil
}

// ByRegime breaks the summary down by entry regime. Every closed trade with
// a non-null entry regime lands in exactly one bucket.
func (a *PerformanceAnalyzer) ByRegime(strategy optional.Option[string]) (map[string]types.SummaryStatistics, error) {
	db, err := a.store.DB()
	if err != nil {
		return nil, err
	}

	query := a.store.Builder().
		Select("DISTINCT entry_regime").
		From("trade_log").
		Where("exit_time IS NOT NULL").
		Where("entry_regime IS NOT NULL")

	if strategy.IsSome() {
		query = query.Where(squirrel.Eq{"strategy": strategy.Unwrap()})
	}

	rows, err := query.RunWith(db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query regimes: %w", err)
	}
	defer rows.Close()

	var regimes []string

	for rows.Next() {
		var regime string
		if err := rows.Scan(&regime); err != nil {
			return nil, fmt.Errorf("failed to scan regime: %w", err)
		}

		regimes = append(regimes, regime)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regimes: %w", err)
	}

	result := make(map[string]types.SummaryStatistics, len(regimes))

	for _, regime := range regimes {
		summary, err := a.Summary(strategy, optional.Some(regime))
		if err != nil {
			return nil, err
		}

		result[regime] = summary
	}

	return result, nil
}

// DetectDecay compares the strategy's most recent closed trades against the
// strictly older, non-overlapping baseline window. Each trigger condition is
// independently sufficient to flag decay. With fewer than RecentWindow closed
// trades, or an empty baseline, the report carries HasEnoughData=false and no
// comparison is computed.
func (a *PerformanceAnalyzer) DetectDecay(strategy string, config DecayConfig) (types.DecayReport, error) {
	db, err := a.store.DB()
	if err != nil {
		return types.DecayReport{}, err
	}

	query := a.store.Builder().
		Select("pnl_percent", "duration_minutes").
		From("trade_log").
		Where(squirrel.Eq{"strategy": strategy}).
		Where("exit_time IS NOT NULL").
		OrderBy("exit_time DESC").
		RunWith(db)

	rows, err := query.Query()
	if err != nil {
		return types.DecayReport{}, fmt.Errorf("failed to query closed trades: %w", err)
	}
	defer rows.Close()

	trades, err := collectClosedTrades(rows)
	if err != nil {
		return types.DecayReport{}, err
	}

	total := len(trades)
	needed := config.RecentWindow + config.BaselineWindow

	if total < config.RecentWindow {
		return types.DecayReport{
			HasEnoughData:     false,
			TotalClosedTrades: total,
			Needed:            needed,
			Recommendation:    fmt.Sprintf("Need at least %d closed trades for analysis.", config.RecentWindow),
		}, nil
	}

	baselineEnd := min(config.RecentWindow+config.BaselineWindow, total)
	if baselineEnd == config.RecentWindow {
		return types.DecayReport{
			HasEnoughData:     false,
			TotalClosedTrades: total,
			Needed:            needed,
			Recommendation:    fmt.Sprintf("Need at least %d closed trades for decay comparison.", needed),
		}, nil
	}

	recent := summarize(trades[:config.RecentWindow])
	baseline := summarize(trades[config.RecentWindow:baselineEnd])

	winRateDelta := recent.WinRate - baseline.WinRate
	expectancyDelta := recent.ExpectancyPct - baseline.ExpectancyPct

	var reasons []string

	if winRateDelta < config.WinRateDropThreshold {
		reasons = append(reasons, fmt.Sprintf("Win rate dropped %.1f%%", math.Abs(winRateDelta)*100))
	}

	if baseline.ExpectancyPct > 0 && recent.ExpectancyPct < 0 {
		reasons = append(reasons, "Expectancy turned negative")
	}

	if recent.ProfitFactor < config.BreakevenProfitFactor && baseline.ProfitFactor >= config.BreakevenProfitFactor {
		reasons = append(reasons, "Profit factor dropped below 1.0")
	}

	decayDetected := len(reasons) > 0

	var recommendation string
	if decayDetected {
		recommendation = fmt.Sprintf(
			"DECAY DETECTED: %s. Consider reducing position size or pausing strategy.",
			strings.Join(reasons, "; "),
		)
	} else {
		recommendation = "No significant decay detected. Strategy performance is stable."
	}

	return types.DecayReport{
		HasEnoughData:     true,
		TotalClosedTrades: total,
		Recent:            recent,
		Baseline:          baseline,
		WinRateDelta:      round4(winRateDelta),
		ExpectancyDelta:   round4(expectancyDelta),
		DecayDetected:     decayDetected,
		Reasons:           reasons,
		Recommendation:    recommendation,
	}, nil
}

// RecentTrades returns the n most recently closed trades with their full
// context, most recent exit first.
func (a *PerformanceAnalyzer) RecentTrades(n int, strategy optional.Option[string]) ([]types.TradeRecord, error) {
	db, err := a.store.DB()
	if err != nil {
		return nil, err
	}

	query := a.store.Builder().
		Select(tradeLogColumns...).
		From("trade_log").
		Where("exit_time IS NOT NULL")

	if strategy.IsSome() {
		query = query.Where(squirrel.Eq{"strategy": strategy.Unwrap()})
	}

	rows, err := query.
		OrderBy("exit_time DESC").
		Limit(uint64(n)).
		RunWith(db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query recent trades: %w", err)
	}
	defer rows.Close()

	var trades []types.TradeRecord

	for rows.Next() {
		trade, err := scanTradeRecord(rows)
		if err != nil {
			return nil, err
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// closedTrade is the slice of a trade row the statistics need.
type closedTrade struct {
	pnlPercent float64
	duration   sql.NullFloat64
}

func collectClosedTrades(rows *sql.Rows) ([]closedTrade, error) {
	var trades []closedTrade

	for rows.Next() {
		var (
			pnl      sql.NullFloat64
			duration sql.NullFloat64
		)

		if err := rows.Scan(&pnl, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}

		trades = append(trades, closedTrade{
			pnlPercent: pnl.Float64,
			duration:   duration,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}

	return trades, nil
}

// summarize computes summary statistics over the trades. Trades without a
// recorded duration contribute to every metric except the average duration.
func summarize(trades []closedTrade) types.SummaryStatistics {
	pnls := make([]float64, 0, len(trades))

	var durations []float64

	for _, trade := range trades {
		pnls = append(pnls, trade.pnlPercent)

		if trade.duration.Valid {
			durations = append(durations, trade.duration.Float64)
		}
	}

	return types.NewSummaryStatistics(pnls, durations)
}

var tradeLogColumns = []string{
	"id", "trade_id", "pair", "strategy",
	"entry_time", "entry_price",
	"entry_rsi", "entry_tema", "entry_bb_percent", "entry_bb_width", "entry_adx",
	"entry_volatility_regime", "entry_trend_regime", "entry_regime",
	"exit_time", "exit_price", "exit_reason",
	"exit_rsi", "exit_tema", "exit_bb_percent", "exit_bb_width", "exit_adx",
	"exit_volatility_regime", "exit_trend_regime", "exit_regime",
	"pnl_absolute", "pnl_percent", "duration_minutes", "regime_changed",
	"created_at",
}

func scanTradeRecord(rows *sql.Rows) (types.TradeRecord, error) {
	var (
		trade types.TradeRecord

		entryRSI, entryTEMA, entryBBPercent, entryBBWidth, entryADX sql.NullFloat64
		entryVolatility, entryTrend, entryRegime                    sql.NullString

		exitTime                                               sql.NullTime
		exitPrice                                              sql.NullFloat64
		exitReason                                             sql.NullString
		exitRSI, exitTEMA, exitBBPercent, exitBBWidth, exitADX sql.NullFloat64
		exitVolatility, exitTrend, exitRegime                  sql.NullString

		pnlAbsolute, pnlPercent, durationMinutes sql.NullFloat64
		regimeChanged                            sql.NullBool
	)

	err := rows.Scan(
		&trade.ID, &trade.TradeID, &trade.Pair, &trade.Strategy,
		&trade.EntryTime, &trade.EntryPrice,
		&entryRSI, &entryTEMA, &entryBBPercent, &entryBBWidth, &entryADX,
		&entryVolatility, &entryTrend, &entryRegime,
		&exitTime, &exitPrice, &exitReason,
		&exitRSI, &exitTEMA, &exitBBPercent, &exitBBWidth, &exitADX,
		&exitVolatility, &exitTrend, &exitRegime,
		&pnlAbsolute, &pnlPercent, &durationMinutes, &regimeChanged,
		&trade.CreatedAt,
	)
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("failed to scan trade record: %w", err)
	}

	trade.EntryIndicators = types.IndicatorSnapshot{
		RSI:       floatOption(entryRSI),
		TEMA:      floatOption(entryTEMA),
		BBPercent: floatOption(entryBBPercent),
		BBWidth:   floatOption(entryBBWidth),
		ADX:       floatOption(entryADX),
	}
	trade.EntryRegime = types.Regime{
		Volatility: entryVolatility.String,
		Trend:      entryTrend.String,
		Combined:   entryRegime.String,
	}

	trade.ExitTime = timeOption(exitTime)
	trade.ExitPrice = floatOption(exitPrice)
	trade.ExitReason = stringOption(exitReason)
	trade.ExitIndicators = types.IndicatorSnapshot{
		RSI:       floatOption(exitRSI),
		TEMA:      floatOption(exitTEMA),
		BBPercent: floatOption(exitBBPercent),
		BBWidth:   floatOption(exitBBWidth),
		ADX:       floatOption(exitADX),
	}
	trade.ExitRegime = types.Regime{
		Volatility: exitVolatility.String,
		Trend:      exitTrend.String,
		Combined:   exitRegime.String,
	}

	trade.PnLAbsolute = floatOption(pnlAbsolute)
	trade.PnLPercent = floatOption(pnlPercent)
	trade.DurationMinutes = floatOption(durationMinutes)
	trade.RegimeChanged = boolOption(regimeChanged)

	return trade, nil
}

func floatOption(v sql.NullFloat64) optional.Option[float64] {
	if !v.Valid {
		return optional.None[float64]()
	}

	return optional.Some(v.Float64)
}

func stringOption(v sql.NullString) optional.Option[string] {
	if !v.Valid {
		return optional.None[string]()
	}

	return optional.Some(v.String)
}

func timeOption(v sql.NullTime) optional.Option[time.Time] {
	if !v.Valid {
		return optional.None[time.Time]()
	}

	return optional.Some(v.Time)
}

func boolOption(v sql.NullBool) optional.Option[bool] {
	if !v.Valid {
		return optional.None[bool]()
	}

	return optional.Some(v.Bool)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
