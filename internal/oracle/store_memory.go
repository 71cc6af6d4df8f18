package oracle

import (
	"context"
	"sync"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

// InMemoryStore keeps verification requests in maps. Suitable for tests and
// single-node deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[domain.RequestID]DeathVerificationRequest
	latest   map[domain.DonorID]domain.RequestID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		requests: make(map[domain.RequestID]DeathVerificationRequest),
		latest:   make(map[domain.DonorID]domain.RequestID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, req *DeathVerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; exists {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = *req
	s.latest[req.Donor] = req.ID
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.RequestID) (*DeathVerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &req, nil
}

func (s *InMemoryStore) Update(_ context.Context, req *DeathVerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *InMemoryStore) LatestForDonor(_ context.Context, donor domain.DonorID) (*DeathVerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latest[donor]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	req := s.requests[id]
	return &req, nil
}
