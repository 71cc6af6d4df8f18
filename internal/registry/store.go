package registry

import (
	"context"

	"lifelink/pkg/domain"
)

// Store is the persistence contract for registration records. Last-write-wins
// per key; implementations return sentinel.ErrNotFound for absent records and
// the service layer translates into domain errors.
type Store interface {
	GetDonor(ctx context.Context, addr domain.DonorID) (*Donor, error)
	PutDonor(ctx context.Context, d *Donor) error
	GetRecipient(ctx context.Context, addr domain.RecipientID) (*Recipient, error)
	PutRecipient(ctx context.Context, r *Recipient) error
	GetHospital(ctx context.Context, addr domain.HospitalID) (*Hospital, error)
	PutHospital(ctx context.Context, h *Hospital) error
}
