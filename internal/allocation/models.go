// Package allocation implements the organ allocation engine: it scores
// candidates, walks the waiting list, and performs the allocation decision
// that binds an organ to a recipient.
package allocation

import (
	"time"

	"lifelink/internal/matching/scorer"
	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
)

// OrganStatus tracks a donated organ through its lifecycle.
// Transplanted, Expired, and Rejected are terminal.
type OrganStatus string

const (
	OrganAvailable    OrganStatus = "available"
	OrganMatched      OrganStatus = "matched"
	OrganTransplanted OrganStatus = "transplanted"
	OrganExpired      OrganStatus = "expired"
	OrganRejected     OrganStatus = "rejected"
)

// Organ is a donated organ instance.
//
// Invariants:
//   - AssignedRecipient is set iff Status is Matched or Transplanted.
//   - Status never leaves a terminal state.
type Organ struct {
	ID                domain.OrganID
	OrganType         domain.OrganType
	BloodType         domain.BloodType
	Donor             domain.DonorID
	Region            domain.Region
	Status            OrganStatus
	IsEmergency       bool
	UrgencyLevel      int
	MedicalValidated  bool
	AssignedRecipient domain.RecipientID
	AssignedHospital  domain.HospitalID
	DonatedAt         time.Time
	ExpiresAt         time.Time
}

// ProposalStatus tracks a match proposal. Confirmed, Rejected, and Expired
// are terminal.
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalMatched   ProposalStatus = "matched"
	ProposalConfirmed ProposalStatus = "confirmed"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalExpired   ProposalStatus = "expired"
)

// open reports whether the proposal can still transition.
func (s ProposalStatus) open() bool {
	return s == ProposalPending || s == ProposalMatched
}

// MatchProposal records one allocation decision awaiting hospital action.
type MatchProposal struct {
	ID         domain.ProposalID
	OrganID    domain.OrganID
	Recipient  domain.RecipientID
	Hospital   domain.HospitalID
	Score      scorer.MatchScore
	Status     ProposalStatus
	ProposedAt time.Time
}

// Candidate is one scored waiting-list entry, ready for ranking.
type Candidate struct {
	Entry waitlist.Entry
	Score scorer.MatchScore
}
