package waitlist

import (
	"context"
	"sync"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// InMemoryStore keeps waiting-list entries in a slice guarded by a RWMutex.
// Insertion order doubles as the queue order, so list reads are a filtered
// scan with no re-sorting.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	nextSeq uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextSeq: 1}
}

func (s *InMemoryStore) Insert(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].Recipient == e.Recipient && s.entries[i].OrganType == e.OrganType {
			return sentinel.ErrConflict
		}
	}
	e.Seq = s.nextSeq
	s.nextSeq++
	e.Active = true
	s.entries = append(s.entries, *e)
	return nil
}

func (s *InMemoryStore) GetActive(_ context.Context, recipient domain.RecipientID, organType domain.OrganType) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].Recipient == recipient && s.entries[i].OrganType == organType {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByOrganRegion(_ context.Context, organType domain.OrganType, region domain.Region) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].OrganType == organType && s.entries[i].Region == region {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByOrganType(_ context.Context, organType domain.OrganType) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].OrganType == organType {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].Recipient == e.Recipient && s.entries[i].OrganType == e.OrganType {
			// Seq and AddedAt are immutable; updates touch metadata only.
			e.Seq = s.entries[i].Seq
			e.AddedAt = s.entries[i].AddedAt
			s.entries[i] = *e
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) Deactivate(_ context.Context, recipient domain.RecipientID, organType domain.OrganType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Active && s.entries[i].Recipient == recipient && s.entries[i].OrganType == organType {
			s.entries[i].Active = false
			return nil
		}
	}
	// Already inactive or never present: deactivation is idempotent.
	return nil
}
