// Package registry holds the donor, recipient, and hospital record store.
// It is a simple keyed collaborator: the allocation engine reads records and
// drives status transitions through it, nothing more.
package registry

import (
	"time"

	"lifelink/pkg/domain"
)

// DonorStatus tracks a donor through death verification and organ retrieval.
// Transitions are forward-only: Registered -> DeathVerified -> OrgansRetrieved.
type DonorStatus string

const (
	DonorRegistered      DonorStatus = "registered"
	DonorDeathVerified   DonorStatus = "death_verified"
	DonorOrgansRetrieved DonorStatus = "organs_retrieved"
)

// CanTransitionTo enforces the forward-only donor lifecycle.
func (s DonorStatus) CanTransitionTo(next DonorStatus) bool {
	switch s {
	case DonorRegistered:
		return next == DonorDeathVerified
	case DonorDeathVerified:
		return next == DonorOrgansRetrieved
	default:
		return false
	}
}

// RecipientStatus is a recipient's medical standing on the program.
type RecipientStatus string

const (
	RecipientWaiting      RecipientStatus = "waiting"
	RecipientCritical     RecipientStatus = "critical"
	RecipientStable       RecipientStatus = "stable"
	RecipientTransplanted RecipientStatus = "transplanted"
	RecipientRejected     RecipientStatus = "rejected"
)

// CanTransitionTo allows movement between the live statuses; Transplanted and
// Rejected are terminal.
func (s RecipientStatus) CanTransitionTo(next RecipientStatus) bool {
	switch s {
	case RecipientTransplanted, RecipientRejected:
		return false
	default:
		return next == RecipientWaiting || next == RecipientCritical ||
			next == RecipientStable || next == RecipientTransplanted || next == RecipientRejected
	}
}

// Donor is a registered organ donor.
type Donor struct {
	Address      domain.DonorID
	BloodType    domain.BloodType
	Status       DonorStatus
	Region       domain.Region
	RegisteredAt time.Time
}

// Recipient is a registered transplant candidate. Hospital is the treating
// center proposals are routed to; it may be unset.
type Recipient struct {
	Address      domain.RecipientID
	BloodType    domain.BloodType
	Status       RecipientStatus
	Region       domain.Region
	Hospital     domain.HospitalID
	RegisteredAt time.Time
}

// Hospital is an accredited transplant center.
type Hospital struct {
	Address    domain.HospitalID
	Name       string
	Region     domain.Region
	Accredited bool
}
