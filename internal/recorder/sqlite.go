package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MarketPulse/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	now    func() time.Time
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets external readers query while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:     db,
		now:    time.Now,
		logger: log.With().Str("component", "recorder").Logger(),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			bar_time    INTEGER,
			close       REAL,
			label       TEXT NOT NULL,
			buy_votes     INTEGER,
			sell_votes    INTEGER,
			neutral_votes INTEGER,
			rsi           REAL,
			macd          REAL,
			adx           REAL,
			pivot         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON signal_snapshots(symbol, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS pattern_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL REFERENCES signal_snapshots(id),
			symbol      TEXT NOT NULL,
			bar_time    INTEGER,
			pattern     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_symbol ON pattern_events(symbol, bar_time)`,

		`CREATE TABLE IF NOT EXISTS signal_changes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			bar_time    INTEGER,
			from_label  TEXT,
			to_label    TEXT NOT NULL,
			close       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_symbol ON signal_changes(symbol, recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable stores NaN as SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func unixOrNull(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

// RecordSnapshot inserts the snapshot and its patterns in one transaction.
func (r *SQLiteRecorder) RecordSnapshot(snap *SignalSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO signal_snapshots
		(recorded_at, symbol, bar_time, close, label, buy_votes, sell_votes, neutral_votes, rsi, macd, adx, pivot)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), snap.Symbol, unixOrNull(snap.BarTime), nullable(snap.Close),
		string(snap.Label), snap.Buy, snap.Sell, snap.Neutral,
		nullable(snap.RSI), nullable(snap.MACD), nullable(snap.ADX), nullable(snap.Pivot),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}
	for _, p := range snap.Patterns {
		if _, err := tx.Exec(`INSERT INTO pattern_events (snapshot_id, symbol, bar_time, pattern) VALUES (?,?,?,?)`,
			id, snap.Symbol, unixOrNull(snap.BarTime), string(p)); err != nil {
			return fmt.Errorf("insert pattern: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSignalChange(evt *SignalChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signal_changes
		(recorded_at, symbol, bar_time, from_label, to_label, close)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Symbol, unixOrNull(evt.BarTime),
		string(evt.From), string(evt.To), nullable(evt.Close),
	)
	return err
}

// History returns up to limit snapshots for symbol, newest first.
func (r *SQLiteRecorder) History(symbol string, limit int) ([]SignalSnapshot, error) {
	rows, err := r.db.Query(`SELECT id, symbol, bar_time, close, label, buy_votes, sell_votes, neutral_votes, rsi, macd, adx, pivot
		FROM signal_snapshots WHERE symbol = ? ORDER BY id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SignalSnapshot
	var ids []int64
	for rows.Next() {
		var (
			id                  int64
			s                   SignalSnapshot
			barTime             sql.NullInt64
			label               string
			cls, rsi, macd, adx sql.NullFloat64
			pivot               sql.NullFloat64
		)
		if err := rows.Scan(&id, &s.Symbol, &barTime, &cls, &label, &s.Buy, &s.Sell, &s.Neutral, &rsi, &macd, &adx, &pivot); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if barTime.Valid {
			s.BarTime = time.Unix(barTime.Int64, 0).UTC()
		}
		s.Label = model.SignalLabel(label)
		s.Close, s.RSI, s.MACD, s.ADX, s.Pivot = orNaN(cls), orNaN(rsi), orNaN(macd), orNaN(adx), orNaN(pivot)
		out = append(out, s)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		patterns, err := r.patternsFor(id)
		if err != nil {
			return nil, err
		}
		out[i].Patterns = patterns
	}
	return out, nil
}

func (r *SQLiteRecorder) patternsFor(snapshotID int64) ([]model.Pattern, error) {
	rows, err := r.db.Query(`SELECT pattern FROM pattern_events WHERE snapshot_id = ? ORDER BY id`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()
	var out []model.Pattern
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, model.Pattern(p))
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
