package audit

import "context"

// Store is the append-only persistence contract for the audit trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOrgan(ctx context.Context, organID string) ([]Event, error)
	ListByDonor(ctx context.Context, donor string) ([]Event, error)
}
