// Package store persists the decision audit log.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"options-lab/internal/models"
)

// SQLiteStore is the SQLite-backed decision log.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the decision database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Decisions table: one row per generated trade decision
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		strategy_name TEXT NOT NULL,
		trade_allowed INTEGER NOT NULL,
		confidence INTEGER NOT NULL,
		risk_flags TEXT,
		reasoning TEXT,
		summary TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_decisions_strategy ON decisions(strategy_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveDecision appends a decision to the log.
func (s *SQLiteStore) SaveDecision(ctx context.Context, d models.Decision) error {
	flags, err := json.Marshal(d.RiskFlags)
	if err != nil {
		return fmt.Errorf("marshaling risk flags: %w", err)
	}
	reasoning, err := json.Marshal(d.Reasoning)
	if err != nil {
		return fmt.Errorf("marshaling reasoning: %w", err)
	}

	allowed := 0
	if d.TradeAllowed {
		allowed = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, timestamp, strategy_name, trade_allowed, confidence, risk_flags, reasoning, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Timestamp.UTC(), d.StrategyName, allowed, d.Confidence, string(flags), string(reasoning), d.Summary)
	if err != nil {
		return fmt.Errorf("saving decision %s: %w", d.ID, err)
	}
	return nil
}

// GetDecisions returns the most recent decisions, newest first.
func (s *SQLiteStore) GetDecisions(ctx context.Context, limit int) ([]models.Decision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, strategy_name, trade_allowed, confidence, risk_flags, reasoning, summary
		FROM decisions ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []models.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDecisionByID looks up a single decision.
func (s *SQLiteStore) GetDecisionByID(ctx context.Context, id string) (*models.Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, strategy_name, trade_allowed, confidence, risk_flags, reasoning, summary
		FROM decisions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying decision %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	d, err := scanDecision(rows)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDecision(rows *sql.Rows) (models.Decision, error) {
	var d models.Decision
	var allowed int
	var flags, reasoning sql.NullString

	if err := rows.Scan(&d.ID, &d.Timestamp, &d.StrategyName, &allowed, &d.Confidence, &flags, &reasoning, &d.Summary); err != nil {
		return models.Decision{}, fmt.Errorf("scanning decision: %w", err)
	}
	d.TradeAllowed = allowed == 1

	if flags.Valid && flags.String != "" {
		if err := json.Unmarshal([]byte(flags.String), &d.RiskFlags); err != nil {
			return models.Decision{}, fmt.Errorf("parsing risk flags: %w", err)
		}
	}
	if reasoning.Valid && reasoning.String != "" {
		if err := json.Unmarshal([]byte(reasoning.String), &d.Reasoning); err != nil {
			return models.Decision{}, fmt.Errorf("parsing reasoning: %w", err)
		}
	}
	return d, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
