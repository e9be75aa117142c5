// Package recorder captures the indicator and regime context surrounding
// every trade. It is the sole writer of the performance store: one row per
// trade inserted at entry, mutated exactly once at exit, plus append-only
// periodic regime snapshots.
package recorder

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-perf/internal/logger"
	"github.com/rxtech-lab/argo-perf/internal/store"
	"github.com/rxtech-lab/argo-perf/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TradeRecorder writes trade context to the performance store.
type TradeRecorder struct {
	store  *store.Store
	logger *logger.Logger
}

// NewTradeRecorder creates a recorder writing to the given store.
func NewTradeRecorder(store *store.Store, logger *logger.Logger) *TradeRecorder {
	return &TradeRecorder{
		store:  store,
		logger: logger,
	}
}

// EntryContext is the full context captured when a trade opens.
type EntryContext struct {
	// TradeID is the execution engine's identifier. It is not required to be
	// unique; repeated open/close cycles may reuse it.
	TradeID    string
	Pair       string
	Strategy   string
	EntryTime  time.Time
	EntryPrice float64
	Indicators types.IndicatorSnapshot
	Regime     types.Regime
}

// ExitContext is the full context captured when a trade closes.
type ExitContext struct {
	TradeID    string
	ExitTime   time.Time
	ExitPrice  float64
	ExitReason types.ExitReason
	Indicators types.IndicatorSnapshot
	Regime     types.Regime
	// EntryPrice is supplied by the caller for the P&L calculation.
	EntryPrice float64
	// DurationMinutes is the caller-measured time the trade was open.
	DurationMinutes float64
}

// SnapshotContext is a periodic market-condition observation, independent of
// any trade.
type SnapshotContext struct {
	Pair       string
	Timestamp  time.Time
	Regime     types.Regime
	Indicators types.IndicatorSnapshot
}

// LogEntry inserts a new open trade record and returns its storage-assigned
// row id. No uniqueness check is performed on the trade id.
func (r *TradeRecorder) LogEntry(entry EntryContext) (int64, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}

	query := r.store.Builder().
		Insert("trade_log").
		Columns(
			"trade_id", "pair", "strategy",
			"entry_time", "entry_price",
			"entry_rsi", "entry_tema", "entry_bb_percent", "entry_bb_width", "entry_adx",
			"entry_volatility_regime", "entry_trend_regime", "entry_regime",
		).
		Values(
			entry.TradeID, entry.Pair, entry.Strategy,
			entry.EntryTime, entry.EntryPrice,
			nullableFloat(entry.Indicators.RSI),
			nullableFloat(entry.Indicators.TEMA),
			nullableFloat(entry.Indicators.BBPercent),
			nullableFloat(entry.Indicators.BBWidth),
			nullableFloat(entry.Indicators.ADX),
			nullableString(entry.Regime.Volatility),
			nullableString(entry.Regime.Trend),
			nullableString(entry.Regime.Combined),
		).
		Suffix("RETURNING id").
		RunWith(db)

	var id int64
	if err := query.QueryRow().Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert trade entry: %w", err)
	}

	r.logger.Debug("trade entry logged",
		zap.String("trade_id", entry.TradeID),
		zap.String("pair", entry.Pair),
		zap.Int64("row_id", id),
	)

	return id, nil
}

// LogExit closes the most recently inserted open record matching the trade
// id and writes the exit context plus the derived performance fields. It
// returns false without writing when no open record exists for the id. The
// update is guarded on the record still being open, so a concurrent second
// close cannot clobber the first.
func (r *TradeRecorder) LogExit(exit ExitContext) (bool, error) {
	db, err := r.store.DB()
	if err != nil {
		return false, err
	}

	// Ties between records sharing a trade id are broken by insertion order:
	// the latest open record wins.
	var (
		rowID       int64
		entryRegime sql.NullString
	)

	err = db.QueryRow(
		`SELECT id, entry_regime FROM trade_log
		 WHERE trade_id = ? AND exit_time IS NULL
		 ORDER BY id DESC LIMIT 1`,
		exit.TradeID,
	).Scan(&rowID, &entryRegime)
	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to look up open trade: %w", err)
	}

	pnlAbsolute, pnlPercent := calculatePnL(exit.EntryPrice, exit.ExitPrice)
	regimeChanged := entryRegime.String != exit.Regime.Combined

	query := r.store.Builder().
		Update("trade_log").
		Set("exit_time", exit.ExitTime).
		Set("exit_price", exit.ExitPrice).
		Set("exit_reason", string(exit.ExitReason)).
		Set("exit_rsi", nullableFloat(exit.Indicators.RSI)).
		Set("exit_tema", nullableFloat(exit.Indicators.TEMA)).
		Set("exit_bb_percent", nullableFloat(exit.Indicators.BBPercent)).
		Set("exit_bb_width", nullableFloat(exit.Indicators.BBWidth)).
		Set("exit_adx", nullableFloat(exit.Indicators.ADX)).
		Set("exit_volatility_regime", nullableString(exit.Regime.Volatility)).
		Set("exit_trend_regime", nullableString(exit.Regime.Trend)).
		Set("exit_regime", nullableString(exit.Regime.Combined)).
		Set("pnl_absolute", pnlAbsolute).
		Set("pnl_percent", pnlPercent).
		Set("duration_minutes", exit.DurationMinutes).
		Set("regime_changed", regimeChanged).
		Where(squirrel.Eq{"id": rowID}).
		Where("exit_time IS NULL").
		RunWith(db)

	result, err := query.Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update trade exit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		// The record was closed between the lookup and the update.
		return false, nil
	}

	r.logger.Debug("trade exit logged",
		zap.String("trade_id", exit.TradeID),
		zap.Float64("pnl_percent", pnlPercent),
		zap.Bool("regime_changed", regimeChanged),
	)

	return true, nil
}

// LogRegimeSnapshot appends a periodic regime observation.
func (r *TradeRecorder) LogRegimeSnapshot(snapshot SnapshotContext) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}

	query := r.store.Builder().
		Insert("regime_snapshots").
		Columns(
			"timestamp", "pair",
			"volatility_regime", "trend_regime", "regime",
			"bb_width", "adx", "rsi",
		).
		Values(
			snapshot.Timestamp, snapshot.Pair,
			nullableString(snapshot.Regime.Volatility),
			nullableString(snapshot.Regime.Trend),
			nullableString(snapshot.Regime.Combined),
			nullableFloat(snapshot.Indicators.BBWidth),
			nullableFloat(snapshot.Indicators.ADX),
			nullableFloat(snapshot.Indicators.RSI),
		).
		RunWith(db)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to insert regime snapshot: %w", err)
	}

	return nil
}

// FindOpenTrade returns the trade id of the open record with the most recent
// entry time for the pair. Callers use this to recover trade identity after
// a restart.
func (r *TradeRecorder) FindOpenTrade(pair string) (optional.Option[string], error) {
	db, err := r.store.DB()
	if err != nil {
		return optional.None[string](), err
	}

	var tradeID string

	err = db.QueryRow(
		`SELECT trade_id FROM trade_log
		 WHERE pair = ? AND exit_time IS NULL
		 ORDER BY entry_time DESC LIMIT 1`,
		pair,
	).Scan(&tradeID)
	if err == sql.ErrNoRows {
		return optional.None[string](), nil
	}

	if err != nil {
		return optional.None[string](), fmt.Errorf("failed to find open trade: %w", err)
	}

	return optional.Some(tradeID), nil
}

// calculatePnL derives the absolute and percentage P&L for a closed trade
// using decimal arithmetic. A zero entry price yields zero percentage P&L.
func calculatePnL(entryPrice, exitPrice float64) (float64, float64) {
	entryDec := decimal.NewFromFloat(entryPrice)
	exitDec := decimal.NewFromFloat(exitPrice)
	absoluteDec := exitDec.Sub(entryDec)

	absolute, _ := absoluteDec.Float64()

	if entryPrice == 0 {
		return absolute, 0
	}

	percent, _ := absoluteDec.Div(entryDec).Mul(decimal.NewFromInt(100)).Float64()

	return absolute, percent
}

func nullableFloat(value optional.Option[float64]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}

	return value
}
