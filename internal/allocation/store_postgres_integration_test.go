//go:build integration

package allocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifelink/internal/allocation"
	"lifelink/internal/matching/scorer"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
	"lifelink/pkg/testutil/containers"
)

type AllocationStoresSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	organs    *allocation.PostgresOrganStore
	proposals *allocation.PostgresProposalStore
}

func TestAllocationStoresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AllocationStoresSuite))
}

func (s *AllocationStoresSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	ctx := context.Background()
	s.Require().NoError(s.postgres.ApplySchema(ctx, allocation.OrganSchema))
	s.Require().NoError(s.postgres.ApplySchema(ctx, allocation.ProposalSchema))
	s.organs = allocation.NewPostgresOrganStore(s.postgres.DB)
	s.proposals = allocation.NewPostgresProposalStore(s.postgres.DB)
}

func (s *AllocationStoresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "organs", "match_proposals"))
}

func newTestOrgan() *allocation.Organ {
	return &allocation.Organ{
		ID:               domain.NewOrganID(),
		OrganType:        domain.OrganKidney,
		BloodType:        domain.BloodONeg,
		Donor:            "donor-1",
		Region:           "region-x",
		Status:           allocation.OrganAvailable,
		UrgencyLevel:     5,
		MedicalValidated: true,
		DonatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		ExpiresAt:        time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond),
	}
}

func (s *AllocationStoresSuite) TestOrganRoundTrip() {
	ctx := context.Background()
	organ := newTestOrgan()
	s.Require().NoError(s.organs.Create(ctx, organ))

	got, err := s.organs.Get(ctx, organ.ID)
	s.Require().NoError(err)
	s.Equal(organ.OrganType, got.OrganType)
	s.Equal(organ.BloodType, got.BloodType)
	s.Equal(organ.Status, got.Status)
	s.True(got.MedicalValidated)
	s.Equal(organ.DonatedAt, got.DonatedAt.UTC())
}

func (s *AllocationStoresSuite) TestOrganCreateConflict() {
	ctx := context.Background()
	organ := newTestOrgan()
	s.Require().NoError(s.organs.Create(ctx, organ))
	s.Require().ErrorIs(s.organs.Create(ctx, organ), sentinel.ErrConflict)
}

func (s *AllocationStoresSuite) TestOrganUpdateAndListByStatus() {
	ctx := context.Background()
	organ := newTestOrgan()
	s.Require().NoError(s.organs.Create(ctx, organ))

	organ.Status = allocation.OrganMatched
	organ.AssignedRecipient = "rec-1"
	organ.AssignedHospital = "hosp-1"
	s.Require().NoError(s.organs.Update(ctx, organ))

	matched, err := s.organs.ListByStatus(ctx, allocation.OrganMatched)
	s.Require().NoError(err)
	s.Require().Len(matched, 1)
	s.Equal(domain.RecipientID("rec-1"), matched[0].AssignedRecipient)

	available, err := s.organs.ListByStatus(ctx, allocation.OrganAvailable)
	s.Require().NoError(err)
	s.Empty(available)
}

func (s *AllocationStoresSuite) TestOrganNotFound() {
	ctx := context.Background()
	_, err := s.organs.Get(ctx, domain.NewOrganID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	missing := newTestOrgan()
	s.Require().ErrorIs(s.organs.Update(ctx, missing), sentinel.ErrNotFound)
}

func (s *AllocationStoresSuite) TestProposalRoundTrip() {
	ctx := context.Background()
	organ := newTestOrgan()
	s.Require().NoError(s.organs.Create(ctx, organ))

	proposal := &allocation.MatchProposal{
		ID:        domain.NewProposalID(),
		OrganID:   organ.ID,
		Recipient: "rec-1",
		Hospital:  "hosp-1",
		Score: scorer.MatchScore{
			Total: 78, Blood: 30, Urgency: 20, WaitingTime: 3,
			Geographic: 15, Medical: 10, IsCompatible: true,
		},
		Status:     allocation.ProposalMatched,
		ProposedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.proposals.Create(ctx, proposal))

	got, err := s.proposals.Get(ctx, proposal.ID)
	s.Require().NoError(err)
	s.Equal(proposal.Score, got.Score)
	s.Equal(allocation.ProposalMatched, got.Status)

	got.Status = allocation.ProposalConfirmed
	s.Require().NoError(s.proposals.Update(ctx, got))

	byOrgan, err := s.proposals.ListByOrgan(ctx, organ.ID)
	s.Require().NoError(err)
	s.Require().Len(byOrgan, 1)
	s.Equal(allocation.ProposalConfirmed, byOrgan[0].Status)
}
