package waitlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) newEntry(recipient string) *Entry {
	return &Entry{
		Recipient:    domain.RecipientID(recipient),
		OrganType:    domain.OrganKidney,
		UrgencyLevel: 5,
		Region:       "north",
		Priority:     PriorityMedium,
		AddedAt:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *MemoryStoreSuite) TestInsertAssignsIncreasingSeq() {
	first := s.newEntry("r1")
	second := s.newEntry("r2")
	s.Require().NoError(s.store.Insert(s.ctx, first))
	s.Require().NoError(s.store.Insert(s.ctx, second))

	s.True(first.Active)
	s.Less(first.Seq, second.Seq)
}

func (s *MemoryStoreSuite) TestOneActiveEntryConstraint() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newEntry("r1")))

	err := s.store.Insert(s.ctx, s.newEntry("r1"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.Deactivate(s.ctx, "r1", domain.OrganKidney))
	s.NoError(s.store.Insert(s.ctx, s.newEntry("r1")), "constraint covers active entries only")
}

func (s *MemoryStoreSuite) TestConcurrentInsertsSingleWinner() {
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.store.Insert(s.ctx, s.newEntry("r1"))
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			s.Require().ErrorIs(err, sentinel.ErrConflict)
		}
	}
	s.Equal(1, won, "exactly one concurrent insert may win")
}

func (s *MemoryStoreSuite) TestUpdatePreservesSeqAndAddedAt() {
	e := s.newEntry("r1")
	s.Require().NoError(s.store.Insert(s.ctx, e))

	mutated := *e
	mutated.UrgencyLevel = 9
	mutated.Seq = 999
	mutated.AddedAt = e.AddedAt.Add(time.Hour)
	s.Require().NoError(s.store.Update(s.ctx, &mutated))

	got, err := s.store.GetActive(s.ctx, "r1", domain.OrganKidney)
	s.Require().NoError(err)
	s.Equal(9, got.UrgencyLevel)
	s.Equal(e.Seq, got.Seq)
	s.Equal(e.AddedAt, got.AddedAt)
}

func (s *MemoryStoreSuite) TestGetActiveReturnsCopy() {
	e := s.newEntry("r1")
	s.Require().NoError(s.store.Insert(s.ctx, e))

	got, err := s.store.GetActive(s.ctx, "r1", domain.OrganKidney)
	s.Require().NoError(err)
	got.UrgencyLevel = 10

	again, err := s.store.GetActive(s.ctx, "r1", domain.OrganKidney)
	s.Require().NoError(err)
	s.Equal(5, again.UrgencyLevel, "callers must not mutate stored state")
}

func (s *MemoryStoreSuite) TestListFiltersInactive() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newEntry("r1")))
	s.Require().NoError(s.store.Insert(s.ctx, s.newEntry("r2")))
	s.Require().NoError(s.store.Deactivate(s.ctx, "r1", domain.OrganKidney))

	entries, err := s.store.ListByOrganRegion(s.ctx, domain.OrganKidney, "north")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.RecipientID("r2"), entries[0].Recipient)
}
