package allocation

import (
	"context"
	"sync"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// InMemoryOrganStore keeps organ records in a map guarded by a RWMutex.
type InMemoryOrganStore struct {
	mu     sync.RWMutex
	organs map[domain.OrganID]Organ
}

func NewInMemoryOrganStore() *InMemoryOrganStore {
	return &InMemoryOrganStore{organs: make(map[domain.OrganID]Organ)}
}

func (s *InMemoryOrganStore) Create(_ context.Context, o *Organ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.organs[o.ID]; exists {
		return sentinel.ErrConflict
	}
	s.organs[o.ID] = *o
	return nil
}

func (s *InMemoryOrganStore) Get(_ context.Context, id domain.OrganID) (*Organ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.organs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &o, nil
}

func (s *InMemoryOrganStore) Update(_ context.Context, o *Organ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.organs[o.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.organs[o.ID] = *o
	return nil
}

func (s *InMemoryOrganStore) ListByStatus(_ context.Context, status OrganStatus) ([]Organ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Organ
	for _, o := range s.organs {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// InMemoryProposalStore keeps match proposals in a map guarded by a RWMutex.
type InMemoryProposalStore struct {
	mu        sync.RWMutex
	proposals map[domain.ProposalID]MatchProposal
	byOrgan   map[domain.OrganID][]domain.ProposalID
}

func NewInMemoryProposalStore() *InMemoryProposalStore {
	return &InMemoryProposalStore{
		proposals: make(map[domain.ProposalID]MatchProposal),
		byOrgan:   make(map[domain.OrganID][]domain.ProposalID),
	}
}

func (s *InMemoryProposalStore) Create(_ context.Context, p *MatchProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.proposals[p.ID]; exists {
		return sentinel.ErrConflict
	}
	s.proposals[p.ID] = *p
	s.byOrgan[p.OrganID] = append(s.byOrgan[p.OrganID], p.ID)
	return nil
}

func (s *InMemoryProposalStore) Get(_ context.Context, id domain.ProposalID) (*MatchProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryProposalStore) Update(_ context.Context, p *MatchProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.proposals[p.ID] = *p
	return nil
}

func (s *InMemoryProposalStore) ListByOrgan(_ context.Context, organID domain.OrganID) ([]MatchProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byOrgan[organID]
	out := make([]MatchProposal, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.proposals[id])
	}
	return out, nil
}
