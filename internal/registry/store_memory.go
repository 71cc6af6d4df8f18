package registry

import (
	"context"
	"sync"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// InMemoryStore keeps registration records in maps. Used by unit tests and
// single-node deployments; PostgresStore is the durable variant.
type InMemoryStore struct {
	mu         sync.RWMutex
	donors     map[domain.DonorID]Donor
	recipients map[domain.RecipientID]Recipient
	hospitals  map[domain.HospitalID]Hospital
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		donors:     make(map[domain.DonorID]Donor),
		recipients: make(map[domain.RecipientID]Recipient),
		hospitals:  make(map[domain.HospitalID]Hospital),
	}
}

func (s *InMemoryStore) GetDonor(_ context.Context, addr domain.DonorID) (*Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donors[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

func (s *InMemoryStore) PutDonor(_ context.Context, d *Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donors[d.Address] = *d
	return nil
}

func (s *InMemoryStore) GetRecipient(_ context.Context, addr domain.RecipientID) (*Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipients[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) PutRecipient(_ context.Context, r *Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients[r.Address] = *r
	return nil
}

func (s *InMemoryStore) GetHospital(_ context.Context, addr domain.HospitalID) (*Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &h, nil
}

func (s *InMemoryStore) PutHospital(_ context.Context, h *Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hospitals[h.Address] = *h
	return nil
}
