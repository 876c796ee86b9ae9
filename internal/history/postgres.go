package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"

	_ "github.com/lib/pq"
)

// Postgres stores hand records in a shared database, for deployments
// where several tables report to one place.
type Postgres struct {
	db    *sql.DB
	clock quartz.Clock
}

// OpenPostgres connects with the given DSN and ensures the schema.
func OpenPostgres(dsn string, clock quartz.Clock) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Postgres{db: db, clock: clock}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Record inserts one hand summary.
func (p *Postgres) Record(ctx context.Context, rec HandRecord) error {
	raw, err := json.Marshal(summaryJSON{
		HandNo:   rec.HandNo,
		Category: rec.Category,
		Stacks:   rec.Stacks,
	})
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
INSERT INTO hand_history (
    hand_id, played_at_ms, dealer, winner, pot, uncontested, board, summary_json, created_at_ms
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, rec.HandID, rec.PlayedAt.UTC().UnixMilli(), rec.Dealer, rec.Winner, rec.Pot,
		rec.Uncontested, rec.Board, string(raw), p.clock.Now().UTC().UnixMilli())
	return err
}

// Recent returns the newest records first.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]HandRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := p.db.QueryContext(ctx, `
SELECT hand_id, played_at_ms, dealer, winner, pot, uncontested, board, summary_json
FROM hand_history
ORDER BY played_at_ms DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]HandRecord, 0, limit)
	for rows.Next() {
		var rec HandRecord
		var playedAtMs int64
		var raw []byte
		if err := rows.Scan(&rec.HandID, &playedAtMs, &rec.Dealer, &rec.Winner,
			&rec.Pot, &rec.Uncontested, &rec.Board, &raw); err != nil {
			return nil, err
		}
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
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

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hand_history (
    id BIGSERIAL PRIMARY KEY,
    hand_id TEXT NOT NULL UNIQUE,
    played_at_ms BIGINT NOT NULL,
    dealer INTEGER NOT NULL,
    winner INTEGER NOT NULL,
    pot INTEGER NOT NULL,
    uncontested BOOLEAN NOT NULL DEFAULT FALSE,
    board TEXT NOT NULL DEFAULT '',
    summary_json TEXT NOT NULL DEFAULT '{}',
    created_at_ms BIGINT NOT NULL
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
