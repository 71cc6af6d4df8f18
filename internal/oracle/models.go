// Package oracle is the attestation gateway to the external death
// verification authority. The core never verifies anything itself: it files
// a request here, treats "not yet fulfilled" as a normal waiting state, and
// reacts when the oracle reports back.
package oracle

import (
	"time"

	"lifelink/pkg/domain"
)

// DeathVerificationRequest tracks one attestation request for a donor.
// A fulfilled request is immutable: the verdict, evidence, and reporting
// oracle never change after Fulfill.
type DeathVerificationRequest struct {
	ID          domain.RequestID
	Donor       domain.DonorID
	RequestedAt time.Time

	Fulfilled   bool
	IsDeceased  bool
	EvidenceCID string
	OracleID    string
	FulfilledAt time.Time
}

// VerificationStatus is the caller-facing view of a request. Unfulfilled is
// a valid waiting state, not an error.
type VerificationStatus struct {
	Fulfilled   bool   `json:"fulfilled"`
	IsDeceased  bool   `json:"is_deceased"`
	EvidenceCID string `json:"evidence_cid,omitempty"`
}

// Notification is broadcast to subscribers when a request is fulfilled.
// Consumers must handle duplicates idempotently.
type Notification struct {
	RequestID   domain.RequestID
	Donor       domain.DonorID
	IsDeceased  bool
	EvidenceCID string
}
