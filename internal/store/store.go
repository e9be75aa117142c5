// Package store owns the embedded DuckDB database holding the trade log and
// the regime snapshot history. The store is single-writer: one process opens
// it read-write, and reporting queries run concurrently against the same
// handle.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-perf/internal/logger"
	"github.com/rxtech-lab/argo-perf/pkg/errors"
	"go.uber.org/zap"
)

// Store manages the database handle and schema for the performance layer.
// The handle is opened lazily on first use and released by Close; a closed
// store may be reopened by using it again.
type Store struct {
	path   string
	logger *logger.Logger
	db     *sql.DB
	sq     squirrel.StatementBuilderType
}

// NewStore creates a store backed by the database file at path. An empty
// path opens an in-memory database, which is what tests use.
func NewStore(path string, logger *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
		db:     nil,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DB returns the database handle, opening the database and creating the
// schema on first use.
func (s *Store) DB() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	if s.path != "" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStorageFailure, err, "failed to create data directory for %s", s.path)
		}
	}

	db, err := sql.Open("duckdb", s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageFailure, "failed to open performance database", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()

		return nil, err
	}

	s.db = db

	return db, nil
}

// Builder returns the statement builder configured for this store's
// placeholder format.
func (s *Store) Builder() squirrel.StatementBuilderType {
	return s.sq
}

// Close releases the database handle. Closing an unopened store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeStorageFailure, "failed to close performance database", err)
	}

	if s.logger != nil {
		s.logger.Debug("performance database closed", zap.String("path", s.path))
	}

	return nil
}

// schema statements are idempotent so opening an existing database is safe.
var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS trade_log_id_seq`,
	`CREATE SEQUENCE IF NOT EXISTS regime_snapshot_id_seq`,
	`CREATE TABLE IF NOT EXISTS trade_log (
		id BIGINT PRIMARY KEY DEFAULT nextval('trade_log_id_seq'),
		trade_id TEXT NOT NULL,
		pair TEXT NOT NULL,
		strategy TEXT NOT NULL,

		entry_time TIMESTAMP NOT NULL,
		entry_price DOUBLE NOT NULL,
		entry_rsi DOUBLE,
		entry_tema DOUBLE,
		entry_bb_percent DOUBLE,
		entry_bb_width DOUBLE,
		entry_adx DOUBLE,
		entry_volatility_regime TEXT,
		entry_trend_regime TEXT,
		entry_regime TEXT,

		exit_time TIMESTAMP,
		exit_price DOUBLE,
		exit_reason TEXT,
		exit_rsi DOUBLE,
		exit_tema DOUBLE,
		exit_bb_percent DOUBLE,
		exit_bb_width DOUBLE,
		exit_adx DOUBLE,
		exit_volatility_regime TEXT,
		exit_trend_regime TEXT,
		exit_regime TEXT,

		pnl_absolute DOUBLE,
		pnl_percent DOUBLE,
		duration_minutes DOUBLE,
		regime_changed BOOLEAN,

		created_at TIMESTAMP DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS regime_snapshots (
		id BIGINT PRIMARY KEY DEFAULT nextval('regime_snapshot_id_seq'),
		timestamp TIMESTAMP NOT NULL,
		pair TEXT NOT NULL,
		volatility_regime TEXT,
		trend_regime TEXT,
		regime TEXT,
		bb_width DOUBLE,
		adx DOUBLE,
		rsi DOUBLE,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_log_strategy ON trade_log(strategy)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_log_regime ON trade_log(entry_regime)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_log_pair ON trade_log(pair)`,
	`CREATE INDEX IF NOT EXISTS idx_regime_snapshots_pair ON regime_snapshots(pair, timestamp)`,
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStorageFailure, "failed to create schema", err)
		}
	}

	return nil
}
