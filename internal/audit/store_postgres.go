package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema creates the audit trail table. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	actor      TEXT NOT NULL,
	action     TEXT NOT NULL,
	organ_id   TEXT NOT NULL DEFAULT '',
	recipient  TEXT NOT NULL DEFAULT '',
	donor      TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_events_by_organ ON audit_events (organ_id, occurred_at);
CREATE INDEX IF NOT EXISTS audit_events_by_donor ON audit_events (donor, occurred_at);`

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, actor, action, organ_id, recipient, donor, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID.String(), event.Actor, event.Action, event.OrganID,
		event.Recipient, event.Donor, event.Detail, event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOrgan(ctx context.Context, organID string) ([]Event, error) {
	return s.list(ctx, `SELECT id, actor, action, organ_id, recipient, donor, detail, occurred_at
		FROM audit_events WHERE organ_id = $1 ORDER BY occurred_at`, organID)
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donor string) ([]Event, error) {
	return s.list(ctx, `SELECT id, actor, action, organ_id, recipient, donor, detail, occurred_at
		FROM audit_events WHERE donor = $1 ORDER BY occurred_at`, donor)
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e          Event
			id         string
			occurredAt time.Time
		)
		if err := rows.Scan(&id, &e.Actor, &e.Action, &e.OrganID, &e.Recipient, &e.Donor, &e.Detail, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("malformed audit event id %q: %w", id, err)
		}
		e.ID = parsed
		e.Timestamp = occurredAt
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
