package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/shuuuting95/kaleido-core/config"
	"github.com/shuuuting95/kaleido-core/events"
)

// PostgresJournal implements events.Sink with PostgreSQL persistence.
type PostgresJournal struct {
	db  *sql.DB
	log *slog.Logger
}

func connectionString(c *config.PostgresConfig) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// NewPostgresJournal opens the journal database and runs migrations.
func NewPostgresJournal(cfg *config.PostgresConfig, log *slog.Logger) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	j := &PostgresJournal{db: db, log: log}
	if err := j.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return j, nil
}

func (j *PostgresJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS marketplace_events (
		id UUID PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_events_name ON marketplace_events(name);
	CREATE INDEX IF NOT EXISTS idx_events_created ON marketplace_events(created_at);

	CREATE TABLE IF NOT EXISTS period_snapshots (
		token_id VARCHAR(64) PRIMARY KEY,
		space_id VARCHAR(512) NOT NULL,
		payload JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_space ON period_snapshots(space_id);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Emit journals the event. Persistence failures are logged and swallowed:
// the journal must never fail the emitting operation.
func (j *PostgresJournal) Emit(ev events.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		j.log.Error("marshal event", "event", ev.Name(), "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO marketplace_events (id, name, payload) VALUES ($1, $2, $3)`,
		uuid.NewString(), ev.Name(), payload,
	)
	if err != nil {
		j.log.Error("journal event", "event", ev.Name(), "err", err)
		return
	}

	j.snapshot(ctx, ev)
}

// snapshot keeps the period table current for events that change a
// period's listing state.
func (j *PostgresJournal) snapshot(ctx context.Context, ev events.Event) {
	switch e := ev.(type) {
	case events.NewPeriod:
		payload, err := json.Marshal(e)
		if err != nil {
			return
		}
		_, err = j.db.ExecContext(ctx, `
			INSERT INTO period_snapshots (token_id, space_id, payload, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (token_id) DO UPDATE SET
				payload = EXCLUDED.payload,
				updated_at = NOW()
		`, e.TokenID.String(), e.SpaceID, payload)
		if err != nil {
			j.log.Error("snapshot period", "token_id", e.TokenID.String(), "err", err)
		}
	case events.DeletePeriod:
		_, err := j.db.ExecContext(ctx,
			`DELETE FROM period_snapshots WHERE token_id = $1`, e.TokenID.String())
		if err != nil {
			j.log.Error("drop period snapshot", "token_id", e.TokenID.String(), "err", err)
		}
	}
}

// Close releases the database handle.
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}
