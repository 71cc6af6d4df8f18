// Package domain holds typed identifiers shared across modules.
//
// IDs come in two shapes: UUID-backed IDs minted by this system (organs,
// proposals, verification requests) and opaque address strings owned by the
// upstream registration systems (donors, recipients, hospitals). Typed IDs
// keep the compiler from letting an organ id flow into a recipient lookup.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "lifelink/pkg/domain-errors"
)

// UUID-backed identifiers minted by this system.
type (
	OrganID    uuid.UUID
	ProposalID uuid.UUID
	RequestID  uuid.UUID
)

// Address identifiers owned by external registration systems. Opaque here;
// validation enforces presence and a sane length, nothing more.
type (
	DonorID     string
	RecipientID string
	HospitalID  string
)

const maxAddressLen = 128

func (id OrganID) String() string    { return uuid.UUID(id).String() }
func (id ProposalID) String() string { return uuid.UUID(id).String() }
func (id RequestID) String() string  { return uuid.UUID(id).String() }

func (id OrganID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ProposalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps UUID-backed IDs as canonical strings in JSON and
// map keys.
func (id OrganID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ProposalID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RequestID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *OrganID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrganID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ProposalID) UnmarshalText(b []byte) error {
	parsed, err := ParseProposalID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RequestID) UnmarshalText(b []byte) error {
	parsed, err := ParseRequestID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id DonorID) String() string     { return string(id) }
func (id RecipientID) String() string { return string(id) }
func (id HospitalID) String() string  { return string(id) }

func (id DonorID) IsEmpty() bool     { return id == "" }
func (id RecipientID) IsEmpty() bool { return id == "" }
func (id HospitalID) IsEmpty() bool  { return id == "" }

// NewOrganID mints a fresh organ identifier.
func NewOrganID() OrganID { return OrganID(uuid.New()) }

// NewProposalID mints a fresh match proposal identifier.
func NewProposalID() ProposalID { return ProposalID(uuid.New()) }

// NewRequestID mints a fresh verification request identifier.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// ParseOrganID validates external input at trust boundaries. Rejects empty,
// malformed, and nil UUIDs with CodeInvalidInput.
func ParseOrganID(s string) (OrganID, error) {
	u, err := parseUUID(s, "organ id")
	return OrganID(u), err
}

// ParseProposalID validates external input at trust boundaries.
func ParseProposalID(s string) (ProposalID, error) {
	u, err := parseUUID(s, "proposal id")
	return ProposalID(u), err
}

// ParseRequestID validates external input at trust boundaries.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request id")
	return RequestID(u), err
}

// ParseDonorID validates a donor address from external input.
func ParseDonorID(s string) (DonorID, error) {
	a, err := parseAddress(s, "donor address")
	return DonorID(a), err
}

// ParseRecipientID validates a recipient address from external input.
func ParseRecipientID(s string) (RecipientID, error) {
	a, err := parseAddress(s, "recipient address")
	return RecipientID(a), err
}

// ParseHospitalID validates a hospital address from external input.
func ParseHospitalID(s string) (HospitalID, error) {
	a, err := parseAddress(s, "hospital address")
	return HospitalID(a), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be the nil uuid")
	}
	return u, nil
}

func parseAddress(s, what string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	if len(trimmed) > maxAddressLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, what+" exceeds maximum length")
	}
	return trimmed, nil
}
