package waitlist

import (
	"context"

	"lifelink/pkg/domain"
)

// Store is the persistence contract for waiting-list entries.
//
// Implementations assign Entry.Seq on insert and enforce the one-active-entry
// constraint per (recipient, organ type), returning sentinel.ErrConflict on
// violation. List methods return active entries only, in insertion order.
type Store interface {
	Insert(ctx context.Context, e *Entry) error
	GetActive(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) (*Entry, error)
	ListByOrganRegion(ctx context.Context, organType domain.OrganType, region domain.Region) ([]Entry, error)
	ListByOrganType(ctx context.Context, organType domain.OrganType) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
	Deactivate(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) error
}
