// Package audit records allocation and attestation decisions on an
// append-only trail. Events are facts about what the system did; they are
// emitted by services and persisted through a pluggable store.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names for the allocation trail.
const (
	ActionOrganRegistered     = "organ_registered"
	ActionOrganAllocated      = "organ_allocated"
	ActionEmergencyMatch      = "emergency_match"
	ActionOrganTransplanted   = "organ_transplanted"
	ActionOrganExpired        = "organ_expired"
	ActionProposalRejected    = "proposal_rejected"
	ActionVerificationRequest = "death_verification_requested"
	ActionVerificationFulfill = "death_verification_fulfilled"
	ActionDonorReleased       = "donor_release_processed"
)

// Event is one audit trail record. Keep it transport-agnostic so stores and
// sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Actor     string
	Action    string
	OrganID   string
	Recipient string
	Donor     string
	Detail    string
	Timestamp time.Time
}
