package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifelink/internal/allocation/ports/mocks"
	"lifelink/internal/registry"
	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/requestcontext"
)

// CollaboratorFailureSuite drives the engine against mocked collaborators so
// partial-failure behavior is observable: reverts after a failed waitlist
// deactivation, tolerated registry hiccups, and skipped dangling entries.
type CollaboratorFailureSuite struct {
	suite.Suite

	ctx  context.Context
	now  time.Time
	ctrl *gomock.Controller

	registry  *mocks.MockRegistry
	waitlist  *mocks.MockWaitlist
	audit     *mocks.MockAuditPublisher
	organs    *InMemoryOrganStore
	proposals *InMemoryProposalStore
	service   *Service
}

func TestCollaboratorFailureSuite(t *testing.T) {
	suite.Run(t, new(CollaboratorFailureSuite))
}

func (s *CollaboratorFailureSuite) SetupTest() {
	s.now = time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctrl = gomock.NewController(s.T())

	s.registry = mocks.NewMockRegistry(s.ctrl)
	s.waitlist = mocks.NewMockWaitlist(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.organs = NewInMemoryOrganStore()
	s.proposals = NewInMemoryProposalStore()

	var err error
	s.service, err = New(s.organs, s.proposals, s.registry, s.waitlist, WithAudit(s.audit))
	s.Require().NoError(err)
}

func (s *CollaboratorFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CollaboratorFailureSuite) seedAvailableOrgan(organType domain.OrganType, blood domain.BloodType) *Organ {
	organ := &Organ{
		ID:               domain.NewOrganID(),
		OrganType:        organType,
		BloodType:        blood,
		Donor:            "donor-1",
		Region:           "region-x",
		Status:           OrganAvailable,
		UrgencyLevel:     5,
		MedicalValidated: true,
		DonatedAt:        s.now,
		ExpiresAt:        s.now.Add(12 * time.Hour),
	}
	s.Require().NoError(s.organs.Create(s.ctx, organ))
	return organ
}

func (s *CollaboratorFailureSuite) liveRecipient(addr domain.RecipientID) *registry.Recipient {
	return &registry.Recipient{
		Address:      addr,
		BloodType:    domain.BloodAPos,
		Status:       registry.RecipientWaiting,
		Region:       "region-x",
		Hospital:     "hosp-1",
		RegisteredAt: s.now.Add(-30 * 24 * time.Hour),
	}
}

func (s *CollaboratorFailureSuite) activeEntry(addr domain.RecipientID, organType domain.OrganType, seq uint64) waitlist.Entry {
	return waitlist.Entry{
		Recipient:    addr,
		OrganType:    organType,
		UrgencyLevel: 7,
		Region:       "region-x",
		Priority:     waitlist.PriorityHigh,
		AddedAt:      s.now.Add(-60 * 24 * time.Hour),
		Seq:          seq,
		Active:       true,
	}
}

func (s *CollaboratorFailureSuite) TestRegisterOrganRegistryUnavailable() {
	s.registry.EXPECT().GetDonor(gomock.Any(), domain.DonorID("donor-1")).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "registry down"))

	_, err := s.service.RegisterOrgan(s.ctx, RegisterOrganParams{
		OrganType:    domain.OrganKidney,
		BloodType:    domain.BloodONeg,
		Donor:        "donor-1",
		Region:       "region-x",
		UrgencyLevel: 5,
		ExpiresAt:    s.now.Add(12 * time.Hour),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *CollaboratorFailureSuite) TestAllocateRevertsWhenDeactivationFails() {
	organ := s.seedAvailableOrgan(domain.OrganKidney, domain.BloodONeg)
	entry := s.activeEntry("rec-1", domain.OrganKidney, 1)

	s.registry.EXPECT().GetRecipient(gomock.Any(), domain.RecipientID("rec-1")).
		Return(s.liveRecipient("rec-1"), nil)
	s.waitlist.EXPECT().GetActive(gomock.Any(), domain.RecipientID("rec-1"), domain.OrganKidney).
		Return(&entry, nil)
	s.waitlist.EXPECT().Deactivate(gomock.Any(), domain.RecipientID("rec-1"), domain.OrganKidney).
		Return(dErrors.New(dErrors.CodeUnavailable, "waitlist store down"))

	_, err := s.service.AllocateOrgan(s.ctx, organ.ID, "rec-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	reverted, err := s.service.GetOrgan(s.ctx, organ.ID)
	s.Require().NoError(err)
	s.Equal(OrganAvailable, reverted.Status)
	s.True(reverted.AssignedRecipient.IsEmpty())

	proposals, err := s.proposals.ListByOrgan(s.ctx, organ.ID)
	s.Require().NoError(err)
	s.Require().Len(proposals, 1)
	s.Equal(ProposalRejected, proposals[0].Status)
}

func (s *CollaboratorFailureSuite) TestRankSkipsDanglingEntries() {
	organ := s.seedAvailableOrgan(domain.OrganLiver, domain.BloodONeg)
	gone := s.activeEntry("rec-gone", domain.OrganLiver, 1)
	live := s.activeEntry("rec-live", domain.OrganLiver, 2)

	s.waitlist.EXPECT().ListByOrganType(gomock.Any(), domain.OrganLiver).
		Return([]waitlist.Entry{gone, live}, nil)
	s.registry.EXPECT().GetRecipient(gomock.Any(), domain.RecipientID("rec-gone")).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "recipient not found"))
	s.registry.EXPECT().GetRecipient(gomock.Any(), domain.RecipientID("rec-live")).
		Return(s.liveRecipient("rec-live"), nil)

	candidates, err := s.service.RankCandidates(s.ctx, organ.ID)
	s.Require().NoError(err)
	s.Require().Len(candidates, 1)
	s.Equal(domain.RecipientID("rec-live"), candidates[0].Entry.Recipient)
}

func (s *CollaboratorFailureSuite) TestTransplantToleratesRecipientStatusFailure() {
	organ := s.seedAvailableOrgan(domain.OrganKidney, domain.BloodONeg)
	organ.Status = OrganMatched
	organ.AssignedRecipient = "rec-1"
	organ.AssignedHospital = "hosp-1"
	s.Require().NoError(s.organs.Update(s.ctx, organ))

	s.registry.EXPECT().SetRecipientStatus(gomock.Any(), domain.RecipientID("rec-1"), registry.RecipientTransplanted).
		Return(dErrors.New(dErrors.CodeUnavailable, "registry down"))

	done, err := s.service.MarkTransplanted(s.ctx, organ.ID)
	s.Require().NoError(err)
	s.Equal(OrganTransplanted, done.Status)
}
