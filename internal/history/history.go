// Package history persists a one-row summary of every completed hand.
// Backends exist for SQLite and Postgres; the nop recorder keeps the
// server dependency-free when history is disabled.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// HandRecord is the durable summary of one completed hand.
type HandRecord struct {
	HandID      string
	PlayedAt    time.Time
	HandNo      int
	Dealer      int
	Winner      int
	Pot         int
	Uncontested bool
	// Category names the winning hand, e.g. "two pair". Empty when the
	// pot was uncontested.
	Category string
	// Board is the revealed community cards, e.g. "Ah Kd 7s".
	Board  string
	Stacks []int
}

// Recorder stores hand records and serves them back newest first.
type Recorder interface {
	Record(ctx context.Context, rec HandRecord) error
	Recent(ctx context.Context, limit int) ([]HandRecord, error)
	Close() error
}

// Open selects a backend by driver name: "sqlite", "postgres", or
// "none" for the nop recorder.
func Open(driver, dsn string, clock quartz.Clock) (Recorder, error) {
	switch driver {
	case "", "none":
		return Nop{}, nil
	case "sqlite":
		return OpenSQLite(dsn, clock)
	case "postgres":
		return OpenPostgres(dsn, clock)
	default:
		return nil, fmt.Errorf("unknown history driver %q (supported: none, sqlite, postgres)", driver)
	}
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, HandRecord) error { return nil }

func (Nop) Recent(context.Context, int) ([]HandRecord, error) { return nil, nil }

func (Nop) Close() error { return nil }

// summaryJSON is the variable-width tail of a record, stored as a JSON
// column so the schema stays stable as fields grow.
type summaryJSON struct {
	HandNo   int    `json:"hand_no"`
	Category string `json:"category,omitempty"`
	Stacks   []int  `json:"stacks"`
}
