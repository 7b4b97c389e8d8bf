package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/openclear-io/sealedbid/registry"
)

// PostgresJournal appends audit events to an auction_events table. Rows are
// insert-only; the table is the durable, queryable form of the audit trail.
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgresJournal opens (and if necessary migrates) the journal database.
func NewPostgresJournal(dsn string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging journal database: %w", err)
	}

	j := &PostgresJournal{db: db}
	if err := j.migrate(); err != nil {
		return nil, fmt.Errorf("running journal migrations: %w", err)
	}
	return j, nil
}

func (j *PostgresJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS auction_events (
		id VARCHAR(36) PRIMARY KEY,
		event_type VARCHAR(32) NOT NULL,
		auction_id BIGINT NOT NULL,
		seller VARCHAR(128),
		bidder VARCHAR(128),
		winner VARCHAR(128),
		amount VARCHAR(64),
		payload BYTEA NOT NULL,
		occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
		recorded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_auction_events_auction ON auction_events(auction_id);
	CREATE INDEX IF NOT EXISTS idx_auction_events_type ON auction_events(event_type);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Emit appends one event row. The full CBOR encoding rides along in the
// payload column so replays see every field, not just the indexed ones.
func (j *PostgresJournal) Emit(ctx context.Context, ev registry.Event) error {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
	INSERT INTO auction_events
		(id, event_type, auction_id, seller, bidder, winner, amount, payload, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = j.db.ExecContext(ctx, query,
		ev.ID, string(ev.Type), int64(ev.Auction),
		string(ev.Seller), string(ev.Bidder), string(ev.Winner),
		ev.Amount, payload, ev.At)
	if err != nil {
		return fmt.Errorf("inserting event %s: %w", ev.ID, err)
	}
	return nil
}

// Close releases the database handle.
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}
