package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// PostgresStore persists registration records in PostgreSQL. Records are
// upserted last-write-wins by address, matching the collaborator contract.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema creates the registry tables. Idempotent; used by integration tests
// and single-node bootstrap.
const Schema = `
CREATE TABLE IF NOT EXISTS donors (
	address       TEXT PRIMARY KEY,
	blood_type    TEXT NOT NULL,
	status        TEXT NOT NULL,
	region        TEXT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS recipients (
	address       TEXT PRIMARY KEY,
	blood_type    TEXT NOT NULL,
	status        TEXT NOT NULL,
	region        TEXT NOT NULL,
	hospital      TEXT NOT NULL DEFAULT '',
	registered_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS hospitals (
	address    TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	region     TEXT NOT NULL,
	accredited BOOLEAN NOT NULL
);`

func (s *PostgresStore) GetDonor(ctx context.Context, addr domain.DonorID) (*Donor, error) {
	var (
		d            Donor
		blood        string
		status       string
		region       string
		registeredAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT address, blood_type, status, region, registered_at FROM donors WHERE address = $1`,
		addr.String(),
	).Scan(&d.Address, &blood, &status, &region, &registeredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}
	d.BloodType = domain.BloodType(blood)
	d.Status = DonorStatus(status)
	d.Region = domain.Region(region)
	d.RegisteredAt = registeredAt
	return &d, nil
}

func (s *PostgresStore) PutDonor(ctx context.Context, d *Donor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donors (address, blood_type, status, region, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address) DO UPDATE SET
			blood_type = EXCLUDED.blood_type,
			status = EXCLUDED.status,
			region = EXCLUDED.region,
			registered_at = EXCLUDED.registered_at`,
		d.Address.String(), d.BloodType.String(), string(d.Status), d.Region.String(), d.RegisteredAt)
	if err != nil {
		return fmt.Errorf("put donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRecipient(ctx context.Context, addr domain.RecipientID) (*Recipient, error) {
	var (
		r            Recipient
		blood        string
		status       string
		region       string
		hospital     string
		registeredAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT address, blood_type, status, region, hospital, registered_at FROM recipients WHERE address = $1`,
		addr.String(),
	).Scan(&r.Address, &blood, &status, &region, &hospital, &registeredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	r.BloodType = domain.BloodType(blood)
	r.Status = RecipientStatus(status)
	r.Region = domain.Region(region)
	r.Hospital = domain.HospitalID(hospital)
	r.RegisteredAt = registeredAt
	return &r, nil
}

func (s *PostgresStore) PutRecipient(ctx context.Context, r *Recipient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipients (address, blood_type, status, region, hospital, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address) DO UPDATE SET
			blood_type = EXCLUDED.blood_type,
			status = EXCLUDED.status,
			region = EXCLUDED.region,
			hospital = EXCLUDED.hospital,
			registered_at = EXCLUDED.registered_at`,
		r.Address.String(), r.BloodType.String(), string(r.Status), r.Region.String(), r.Hospital.String(), r.RegisteredAt)
	if err != nil {
		return fmt.Errorf("put recipient: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetHospital(ctx context.Context, addr domain.HospitalID) (*Hospital, error) {
	var (
		h      Hospital
		region string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT address, name, region, accredited FROM hospitals WHERE address = $1`,
		addr.String(),
	).Scan(&h.Address, &h.Name, &region, &h.Accredited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	h.Region = domain.Region(region)
	return &h, nil
}

func (s *PostgresStore) PutHospital(ctx context.Context, h *Hospital) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hospitals (address, name, region, accredited)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE SET
			name = EXCLUDED.name,
			region = EXCLUDED.region,
			accredited = EXCLUDED.accredited`,
		h.Address.String(), h.Name, h.Region.String(), h.Accredited)
	if err != nil {
		return fmt.Errorf("put hospital: %w", err)
	}
	return nil
}
