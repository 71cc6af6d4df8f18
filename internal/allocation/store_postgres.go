package allocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lifelink/internal/matching/scorer"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresOrganStore persists organ records in PostgreSQL.
type PostgresOrganStore struct {
	db *sql.DB
}

// NewPostgresOrganStore constructs a PostgreSQL-backed organ store.
func NewPostgresOrganStore(db *sql.DB) *PostgresOrganStore {
	return &PostgresOrganStore{db: db}
}

// OrganSchema creates the organs table. Idempotent.
const OrganSchema = `
CREATE TABLE IF NOT EXISTS organs (
	id                 UUID PRIMARY KEY,
	organ_type         TEXT NOT NULL,
	blood_type         TEXT NOT NULL,
	donor              TEXT NOT NULL,
	region             TEXT NOT NULL,
	status             TEXT NOT NULL,
	is_emergency       BOOLEAN NOT NULL,
	urgency_level      INT NOT NULL,
	medical_validated  BOOLEAN NOT NULL,
	assigned_recipient TEXT NOT NULL DEFAULT '',
	assigned_hospital  TEXT NOT NULL DEFAULT '',
	donated_at         TIMESTAMPTZ NOT NULL,
	expires_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS organs_by_status ON organs (status);`

const organColumns = `id, organ_type, blood_type, donor, region, status, is_emergency,
	urgency_level, medical_validated, assigned_recipient, assigned_hospital, donated_at, expires_at`

func (s *PostgresOrganStore) Create(ctx context.Context, o *Organ) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organs (`+organColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		organArgs(o)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create organ: %w", err)
	}
	return nil
}

func (s *PostgresOrganStore) Get(ctx context.Context, id domain.OrganID) (*Organ, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+organColumns+` FROM organs WHERE id = $1`, id.String())
	o, err := scanOrgan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get organ: %w", err)
	}
	return o, nil
}

func (s *PostgresOrganStore) Update(ctx context.Context, o *Organ) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE organs SET
			organ_type = $2, blood_type = $3, donor = $4, region = $5, status = $6,
			is_emergency = $7, urgency_level = $8, medical_validated = $9,
			assigned_recipient = $10, assigned_hospital = $11, donated_at = $12, expires_at = $13
		WHERE id = $1`,
		organArgs(o)...)
	if err != nil {
		return fmt.Errorf("update organ: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update organ: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresOrganStore) ListByStatus(ctx context.Context, status OrganStatus) ([]Organ, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+organColumns+` FROM organs WHERE status = $1 ORDER BY donated_at`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list organs by status: %w", err)
	}
	defer rows.Close()

	var out []Organ
	for rows.Next() {
		o, err := scanOrgan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organ: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organs: %w", err)
	}
	return out, nil
}

func organArgs(o *Organ) []any {
	return []any{
		o.ID.String(), o.OrganType.String(), o.BloodType.String(), o.Donor.String(),
		o.Region.String(), string(o.Status), o.IsEmergency, o.UrgencyLevel,
		o.MedicalValidated, o.AssignedRecipient.String(), o.AssignedHospital.String(),
		o.DonatedAt, o.ExpiresAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrgan(row rowScanner) (*Organ, error) {
	var (
		o         Organ
		id        string
		organType string
		blood     string
		region    string
		status    string
		donatedAt time.Time
		expiresAt time.Time
	)
	err := row.Scan(&id, &organType, &blood, &o.Donor, &region, &status,
		&o.IsEmergency, &o.UrgencyLevel, &o.MedicalValidated,
		&o.AssignedRecipient, &o.AssignedHospital, &donatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("malformed organ id %q: %w", id, err)
	}
	o.ID = domain.OrganID(parsed)
	o.OrganType = domain.OrganType(organType)
	o.BloodType = domain.BloodType(blood)
	o.Region = domain.Region(region)
	o.Status = OrganStatus(status)
	o.DonatedAt = donatedAt
	o.ExpiresAt = expiresAt
	return &o, nil
}

// PostgresProposalStore persists match proposals in PostgreSQL. Scores are
// stored as flat columns so proposal history is queryable without JSON
// unpacking.
type PostgresProposalStore struct {
	db *sql.DB
}

// NewPostgresProposalStore constructs a PostgreSQL-backed proposal store.
func NewPostgresProposalStore(db *sql.DB) *PostgresProposalStore {
	return &PostgresProposalStore{db: db}
}

// ProposalSchema creates the match proposals table. Idempotent.
const ProposalSchema = `
CREATE TABLE IF NOT EXISTS match_proposals (
	id                 UUID PRIMARY KEY,
	organ_id           UUID NOT NULL,
	recipient          TEXT NOT NULL,
	hospital           TEXT NOT NULL,
	score_total        INT NOT NULL,
	score_blood        INT NOT NULL,
	score_urgency      INT NOT NULL,
	score_waiting_time INT NOT NULL,
	score_geographic   INT NOT NULL,
	score_medical      INT NOT NULL,
	is_compatible      BOOLEAN NOT NULL,
	status             TEXT NOT NULL,
	proposed_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS match_proposals_by_organ ON match_proposals (organ_id, proposed_at);`

const proposalColumns = `id, organ_id, recipient, hospital, score_total, score_blood,
	score_urgency, score_waiting_time, score_geographic, score_medical, is_compatible, status, proposed_at`

func (s *PostgresProposalStore) Create(ctx context.Context, p *MatchProposal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_proposals (`+proposalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		proposalArgs(p)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

func (s *PostgresProposalStore) Get(ctx context.Context, id domain.ProposalID) (*MatchProposal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM match_proposals WHERE id = $1`, id.String())
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

func (s *PostgresProposalStore) Update(ctx context.Context, p *MatchProposal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE match_proposals SET status = $2 WHERE id = $1`, p.ID.String(), string(p.Status))
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresProposalStore) ListByOrgan(ctx context.Context, organID domain.OrganID) ([]MatchProposal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM match_proposals WHERE organ_id = $1 ORDER BY proposed_at`, organID.String())
	if err != nil {
		return nil, fmt.Errorf("list proposals by organ: %w", err)
	}
	defer rows.Close()

	var out []MatchProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return out, nil
}

func proposalArgs(p *MatchProposal) []any {
	return []any{
		p.ID.String(), p.OrganID.String(), p.Recipient.String(), p.Hospital.String(),
		p.Score.Total, p.Score.Blood, p.Score.Urgency, p.Score.WaitingTime,
		p.Score.Geographic, p.Score.Medical, p.Score.IsCompatible,
		string(p.Status), p.ProposedAt,
	}
}

func scanProposal(row rowScanner) (*MatchProposal, error) {
	var (
		p          MatchProposal
		id         string
		organID    string
		status     string
		score      scorer.MatchScore
		proposedAt time.Time
	)
	err := row.Scan(&id, &organID, &p.Recipient, &p.Hospital,
		&score.Total, &score.Blood, &score.Urgency, &score.WaitingTime,
		&score.Geographic, &score.Medical, &score.IsCompatible, &status, &proposedAt)
	if err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("malformed proposal id %q: %w", id, err)
	}
	parsedOrganID, err := uuid.Parse(organID)
	if err != nil {
		return nil, fmt.Errorf("malformed organ id %q: %w", organID, err)
	}
	p.ID = domain.ProposalID(parsedID)
	p.OrganID = domain.OrganID(parsedOrganID)
	p.Score = score
	p.Status = ProposalStatus(status)
	p.ProposedAt = proposedAt
	return &p, nil
}
