// Package ports defines the collaborator interfaces the allocation engine
// consumes. Keeping them here lets tests mock collaborators without importing
// their implementations.
package ports

import (
	"context"
	"log/slog"

	"lifelink/internal/audit"
	"lifelink/internal/registry"
	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Registry,Waitlist,AuditPublisher

// Registry is the record-store collaborator: lookups plus the status
// transitions allocation is allowed to drive.
type Registry interface {
	GetDonor(ctx context.Context, addr domain.DonorID) (*registry.Donor, error)
	GetRecipient(ctx context.Context, addr domain.RecipientID) (*registry.Recipient, error)
	GetHospital(ctx context.Context, addr domain.HospitalID) (*registry.Hospital, error)
	SetRecipientStatus(ctx context.Context, addr domain.RecipientID, next registry.RecipientStatus) error
	MarkDonorDeathVerified(ctx context.Context, addr domain.DonorID) error
	MarkDonorOrgansRetrieved(ctx context.Context, addr domain.DonorID) error
}

// Waitlist is the waiting-list collaborator.
type Waitlist interface {
	GetActive(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) (*waitlist.Entry, error)
	ListByOrganType(ctx context.Context, organType domain.OrganType) ([]waitlist.Entry, error)
	Prioritize(ctx context.Context, organType domain.OrganType, region domain.Region) ([]waitlist.Entry, error)
	Deactivate(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) error
}

// AuditPublisher records allocation decisions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit emits an audit event and logs it, tolerating a nil publisher so
// services can run without an audit pipeline in tests.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, action string, event audit.Event) {
	event.Action = action
	if publisher != nil {
		if err := publisher.Emit(ctx, event); err != nil && logger != nil {
			logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
		}
	}
	if logger != nil {
		logger.InfoContext(ctx, action,
			"organ_id", event.OrganID, "recipient", event.Recipient, "detail", event.Detail)
	}
}
