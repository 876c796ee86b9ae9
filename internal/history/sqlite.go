package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/quartz"

	_ "modernc.org/sqlite"
)

// SQLite stores hand records in a local database file, created on
// first open.
type SQLite struct {
	db    *sql.DB
	clock quartz.Clock
}

// OpenSQLite opens or creates the database at dbPath and ensures the
// schema. The pure-Go driver needs a single writer connection.
func OpenSQLite(dbPath string, clock quartz.Clock) (*SQLite, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, clock: clock}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one hand summary.
func (s *SQLite) Record(ctx context.Context, rec HandRecord) error {
	raw, err := json.Marshal(summaryJSON{
		HandNo:   rec.HandNo,
		Category: rec.Category,
		Stacks:   rec.Stacks,
	})
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO hand_history (
    hand_id, played_at_ms, dealer, winner, pot, uncontested, board, summary_json, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.HandID, rec.PlayedAt.UTC().UnixMilli(), rec.Dealer, rec.Winner, rec.Pot,
		boolToInt(rec.Uncontested), rec.Board, string(raw), s.clock.Now().UTC().UnixMilli())
	return err
}

// Recent returns the newest records first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]HandRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT hand_id, played_at_ms, dealer, winner, pot, uncontested, board, summary_json
FROM hand_history
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]HandRecord, 0, limit)
	for rows.Next() {
		var rec HandRecord
		var playedAtMs int64
		var uncontested int64
		var raw []byte
		if err := rows.Scan(&rec.HandID, &playedAtMs, &rec.Dealer, &rec.Winner,
			&rec.Pot, &uncontested, &rec.Board, &raw); err != nil {
			return nil, err
		}
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		rec.Uncontested = uncontested == 1
		var sum summaryJSON
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &sum); err != nil {
				return nil, err
			}
		}
		rec.HandNo = sum.HandNo
		rec.Category = sum.Category
		rec.Stacks = sum.Stacks
		records = append(records, rec)
	}
	return records, rows.Err()
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hand_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hand_id TEXT NOT NULL UNIQUE,
    played_at_ms INTEGER NOT NULL,
    dealer INTEGER NOT NULL,
    winner INTEGER NOT NULL,
    pot INTEGER NOT NULL,
    uncontested INTEGER NOT NULL DEFAULT 0,
    board TEXT NOT NULL DEFAULT '',
    summary_json TEXT NOT NULL DEFAULT '{}',
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_hand_history_played_at ON hand_history(played_at_ms DESC, id DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
