// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
	// Serializes clear-and-replace against concurrent reads so a reader
	// never observes a half-replaced table.
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trade records, one row per logged trade
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		htf_month TEXT NOT NULL,
		htf_week TEXT NOT NULL,
		htf_day TEXT NOT NULL,
		exec_tf TEXT,
		ema25_state TEXT NOT NULL,
		structure TEXT NOT NULL,
		reasons TEXT,
		entry_type TEXT NOT NULL,
		wave_position TEXT NOT NULL,
		ema_distance TEXT NOT NULL,
		dango TEXT NOT NULL,
		stop_reason TEXT NOT NULL,
		tp_candidates TEXT,
		rr_category TEXT NOT NULL,
		forbidden_tags TEXT,
		entry_reason TEXT NOT NULL,
		skip_condition TEXT,
		chart_url TEXT,
		friction_note TEXT,
		warnings TEXT,
		gate_score REAL DEFAULT 0,
		result TEXT NOT NULL DEFAULT 'NONE',
		followed_rules TEXT NOT NULL DEFAULT 'NONE',
		deviation_tags TEXT,
		learn_one_line TEXT,
		schema_version INTEGER NOT NULL
	);

	-- Settings singleton, one row keyed by a fixed identifier
	CREATE TABLE IF NOT EXISTS settings (
		id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Create indexes for the expected secondary lookups
	CREATE INDEX IF NOT EXISTS idx_trades_created_at ON trades(created_at);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_result ON trades(result);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// timeKeyFormat is fixed width (never trims fractional zeros) so the TEXT
// ordering of created_at matches chronological order.
const timeKeyFormat = "2006-01-02T15:04:05.000000000Z07:00"

const tradeColumns = `id, created_at, symbol, side, htf_month, htf_week, htf_day,
	exec_tf, ema25_state, structure, reasons, entry_type, wave_position,
	ema_distance, dango, stop_reason, tp_candidates, rr_category, forbidden_tags,
	entry_reason, skip_condition, chart_url, friction_note, warnings, gate_score,
	result, followed_rules, deviation_tags, learn_one_line, schema_version`

// ListTrades returns every trade record, newest first by created_at. The
// ordering is stable across calls.
func (s *SQLiteStore) ListTrades(ctx context.Context) ([]models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, rec)
	}
	return trades, rows.Err()
}

// GetTrade returns a single trade by id, or errs.ErrNotFound.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	rec, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertTrade adds a new trade row. Inserting an existing id fails with
// errs.ErrConflict.
func (s *SQLiteStore) InsertTrade(ctx context.Context, rec models.TradeRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTradeTx(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertTradeTx inserts one trade row inside an existing transaction.
func insertTradeTx(ctx context.Context, tx *sql.Tx, rec models.TradeRecord) error {
	reasons := marshalTags(rec.Reasons)
	tpCandidates := marshalTags(rec.TPCandidates)
	forbiddenTags := marshalTags(rec.ForbiddenTags)
	warnings := marshalTags(rec.Gate.Warnings)
	deviationTags := marshalTags(rec.Outcome.DeviationTags)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.CreatedAt.UTC().Format(timeKeyFormat), rec.Symbol, string(rec.Side),
		string(rec.HigherTF.Month), string(rec.HigherTF.Week), string(rec.HigherTF.Day),
		rec.ExecTF, string(rec.EMA25State), string(rec.Structure), reasons,
		string(rec.EntryType), string(rec.WavePosition), string(rec.EMADistance), string(rec.Dango),
		rec.StopReason, tpCandidates, string(rec.RRCategory), forbiddenTags,
		rec.EntryReasonOneLine, rec.SkipConditionOneLine, rec.ChartURL, rec.FrictionNote,
		warnings, rec.Gate.GateScore,
		string(rec.Outcome.Result), string(rec.Outcome.FollowedRules), deviationTags, rec.Outcome.LearnOneLine,
		rec.SchemaVersion,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("trade %s: %w", rec.ID, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// UpdateOutcome applies a partial outcome edit and returns the number of
// rows updated (0 or 1). Fields left nil are untouched.
func (s *SQLiteStore) UpdateOutcome(ctx context.Context, id string, upd models.TradeUpdate) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sets []string
	var args []interface{}

	if upd.Result != nil {
		sets = append(sets, "result = ?")
		args = append(args, string(*upd.Result))
	}
	if upd.FollowedRules != nil {
		sets = append(sets, "followed_rules = ?")
		args = append(args, string(*upd.FollowedRules))
	}
	if upd.DeviationTags != nil {
		sets = append(sets, "deviation_tags = ?")
		args = append(args, marshalTags(*upd.DeviationTags))
	}
	if upd.LearnOneLine != nil {
		sets = append(sets, "learn_one_line = ?")
		args = append(args, *upd.LearnOneLine)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, "UPDATE trades SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update trade: %w", err)
	}
	return res.RowsAffected()
}

// DeleteTrade removes a trade row and returns the number of rows deleted.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trade: %w", err)
	}
	return res.RowsAffected()
}

// GetSettingsRaw returns the raw settings document, or errs.ErrNotFound when
// the row was never written.
func (s *SQLiteStore) GetSettingsRaw(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM settings WHERE id = ?", models.SettingsKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	return payload, nil
}

// PutSettings upserts the settings singleton row.
func (s *SQLiteStore) PutSettings(ctx context.Context, rec models.SettingsRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := putSettingsTx(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// putSettingsTx upserts the settings row inside an existing transaction.
func putSettingsTx(ctx context.Context, tx *sql.Tx, rec models.SettingsRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (id, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, models.SettingsKey, string(payload))
	if err != nil {
		return fmt.Errorf("failed to put settings: %w", err)
	}
	return nil
}

// ClearAll deletes every trade and the settings row in one transaction.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trades"); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM settings"); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceAll replaces every trade with the supplied list and, when provided,
// writes the settings row, as one transaction. Either everything is applied
// or nothing changes.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, trades []models.TradeRecord, settings *models.SettingsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trades"); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}
	for _, rec := range trades {
		if err := insertTradeTx(ctx, tx, rec); err != nil {
			return err
		}
	}
	if settings != nil {
		if err := putSettingsTx(ctx, tx, *settings); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTrade.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade reads one trade row.
func scanTrade(row rowScanner) (models.TradeRecord, error) {
	var rec models.TradeRecord
	var createdAt string
	var side, month, week, day, ema25, structure, entryType, wavePos, emaDist, dango, rrCategory string
	var result, followedRules string
	var execTF, reasons, tpCandidates, forbiddenTags, skipCondition, chartURL, frictionNote sql.NullString
	var warnings, deviationTags, learnOneLine sql.NullString

	err := row.Scan(
		&rec.ID, &createdAt, &rec.Symbol, &side, &month, &week, &day,
		&execTF, &ema25, &structure, &reasons, &entryType, &wavePos,
		&emaDist, &dango, &rec.StopReason, &tpCandidates, &rrCategory, &forbiddenTags,
		&rec.EntryReasonOneLine, &skipCondition, &chartURL, &frictionNote,
		&warnings, &rec.Gate.GateScore,
		&result, &followedRules, &deviationTags, &learnOneLine,
		&rec.SchemaVersion,
	)
	if err != nil {
		return rec, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return rec, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = ts

	rec.Side = models.Side(side)
	rec.HigherTF = models.HigherTF{
		Month: models.Direction(month),
		Week:  models.Direction(week),
		Day:   models.Direction(day),
	}
	rec.ExecTF = execTF.String
	rec.EMA25State = models.EMA25State(ema25)
	rec.Structure = models.Structure(structure)
	rec.Reasons = unmarshalTags(reasons)
	rec.EntryType = models.EntryType(entryType)
	rec.WavePosition = models.WavePosition(wavePos)
	rec.EMADistance = models.EMADistance(emaDist)
	rec.Dango = models.Dango(dango)
	rec.TPCandidates = unmarshalTags(tpCandidates)
	rec.RRCategory = models.RRCategory(rrCategory)
	rec.ForbiddenTags = unmarshalTags(forbiddenTags)
	rec.SkipConditionOneLine = skipCondition.String
	rec.ChartURL = chartURL.String
	rec.FrictionNote = frictionNote.String
	rec.Gate.Warnings = unmarshalTags(warnings)
	rec.Outcome = models.Outcome{
		Result:        models.TradeResult(result),
		FollowedRules: models.FollowedRules(followedRules),
		DeviationTags: unmarshalTags(deviationTags),
		LearnOneLine:  learnOneLine.String,
	}
	return rec, nil
}

// marshalTags encodes a string slice as a JSON TEXT column value.
func marshalTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// unmarshalTags decodes a JSON TEXT column value into a string slice.
func unmarshalTags(col sql.NullString) []string {
	out := []string{}
	if col.Valid && col.String != "" {
		json.Unmarshal([]byte(col.String), &out)
	}
	return out
}

// isUniqueViolation reports whether err is a primary key or unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
