package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// PostgresStore persists waiting-list entries in PostgreSQL. The one-active-
// entry constraint is a partial unique index, so concurrent inserts race in
// the database rather than in application code; seq is a bigserial, which
// gives the same strictly increasing insertion order as the memory store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed waiting-list store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema creates the waiting-list table. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS waiting_list_entries (
	seq           BIGSERIAL PRIMARY KEY,
	recipient     TEXT NOT NULL,
	organ_type    TEXT NOT NULL,
	urgency_level INT NOT NULL,
	region        TEXT NOT NULL,
	priority      TEXT NOT NULL,
	added_at      TIMESTAMPTZ NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE UNIQUE INDEX IF NOT EXISTS waiting_list_one_active
	ON waiting_list_entries (recipient, organ_type) WHERE active;
CREATE INDEX IF NOT EXISTS waiting_list_queue
	ON waiting_list_entries (organ_type, region) WHERE active;`

const uniqueViolation = "23505"

func (s *PostgresStore) Insert(ctx context.Context, e *Entry) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO waiting_list_entries (recipient, organ_type, urgency_level, region, priority, added_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING seq`,
		e.Recipient.String(), e.OrganType.String(), e.UrgencyLevel, e.Region.String(), e.Priority.String(), e.AddedAt,
	).Scan(&e.Seq)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert waiting list entry: %w", err)
	}
	e.Active = true
	return nil
}

func (s *PostgresStore) GetActive(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, recipient, organ_type, urgency_level, region, priority, added_at, active
		FROM waiting_list_entries
		WHERE recipient = $1 AND organ_type = $2 AND active`,
		recipient.String(), organType.String())
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get active waiting list entry: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListByOrganRegion(ctx context.Context, organType domain.OrganType, region domain.Region) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, recipient, organ_type, urgency_level, region, priority, added_at, active
		FROM waiting_list_entries
		WHERE organ_type = $1 AND region = $2 AND active
		ORDER BY seq`,
		organType.String(), region.String())
	if err != nil {
		return nil, fmt.Errorf("list waiting list by organ and region: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *PostgresStore) ListByOrganType(ctx context.Context, organType domain.OrganType) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, recipient, organ_type, urgency_level, region, priority, added_at, active
		FROM waiting_list_entries
		WHERE organ_type = $1 AND active
		ORDER BY seq`,
		organType.String())
	if err != nil {
		return nil, fmt.Errorf("list waiting list by organ type: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *PostgresStore) Update(ctx context.Context, e *Entry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE waiting_list_entries
		SET urgency_level = $3, region = $4, priority = $5
		WHERE recipient = $1 AND organ_type = $2 AND active`,
		e.Recipient.String(), e.OrganType.String(), e.UrgencyLevel, e.Region.String(), e.Priority.String())
	if err != nil {
		return fmt.Errorf("update waiting list entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update waiting list entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE waiting_list_entries
		SET active = FALSE
		WHERE recipient = $1 AND organ_type = $2 AND active`,
		recipient.String(), organType.String())
	if err != nil {
		return fmt.Errorf("deactivate waiting list entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e         Entry
		organType string
		region    string
		priority  string
		addedAt   time.Time
	)
	if err := row.Scan(&e.Seq, &e.Recipient, &organType, &e.UrgencyLevel, &region, &priority, &addedAt, &e.Active); err != nil {
		return nil, err
	}
	e.OrganType = domain.OrganType(organType)
	e.Region = domain.Region(region)
	e.Priority = Priority(priority)
	e.AddedAt = addedAt
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waiting list entry: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waiting list entries: %w", err)
	}
	return out, nil
}
