package allocation

import (
	"context"

	"lifelink/pkg/domain"
)

// OrganStore persists organ records. Implementations return
// sentinel.ErrNotFound for absent organs and sentinel.ErrConflict when
// Create collides on id.
type OrganStore interface {
	Create(ctx context.Context, o *Organ) error
	Get(ctx context.Context, id domain.OrganID) (*Organ, error)
	Update(ctx context.Context, o *Organ) error
	ListByStatus(ctx context.Context, status OrganStatus) ([]Organ, error)
}

// ProposalStore persists match proposals. An organ accumulates proposal
// history across rejected allocations; at most one proposal per organ is
// open at a time, which the engine enforces under the organ lock.
type ProposalStore interface {
	Create(ctx context.Context, p *MatchProposal) error
	Get(ctx context.Context, id domain.ProposalID) (*MatchProposal, error)
	Update(ctx context.Context, p *MatchProposal) error
	ListByOrgan(ctx context.Context, organID domain.OrganID) ([]MatchProposal, error)
}
