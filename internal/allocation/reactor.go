package allocation

import (
	"context"
	"fmt"
	"log/slog"

	"lifelink/internal/allocation/ports"
	"lifelink/internal/audit"
	"lifelink/internal/oracle"
)

// ReleaseReactor consumes oracle fulfillment notifications and releases
// donors for organ retrieval. Handling is idempotent: a donor already
// verified is left alone, so replayed notifications are harmless.
type ReleaseReactor struct {
	registry      ports.Registry
	notifications <-chan oracle.Notification
	logger        *slog.Logger
	audit         ports.AuditPublisher
}

type ReactorOption func(*ReleaseReactor)

func WithReactorLogger(logger *slog.Logger) ReactorOption {
	return func(r *ReleaseReactor) { r.logger = logger }
}

func WithReactorAudit(p ports.AuditPublisher) ReactorOption {
	return func(r *ReleaseReactor) { r.audit = p }
}

func NewReleaseReactor(reg ports.Registry, notifications <-chan oracle.Notification, opts ...ReactorOption) (*ReleaseReactor, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification channel is required")
	}
	r := &ReleaseReactor{
		registry:      reg,
		notifications: notifications,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes notifications until the context is cancelled or the channel
// closes. Failures are logged and the loop continues; the registry transition
// is idempotent so a later replay can recover.
func (r *ReleaseReactor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-r.notifications:
			if !ok {
				return nil
			}
			r.handle(ctx, n)
		}
	}
}

func (r *ReleaseReactor) handle(ctx context.Context, n oracle.Notification) {
	if !n.IsDeceased {
		r.logger.InfoContext(ctx, "verification resolved alive, donor not released",
			"request_id", n.RequestID, "donor", n.Donor)
		return
	}

	if err := r.registry.MarkDonorDeathVerified(ctx, n.Donor); err != nil {
		r.logger.ErrorContext(ctx, "donor release failed",
			"request_id", n.RequestID, "donor", n.Donor, "error", err)
		return
	}

	ports.LogAudit(ctx, r.logger, r.audit, audit.ActionDonorReleased, audit.Event{
		Donor:  n.Donor.String(),
		Detail: fmt.Sprintf("request=%s evidence=%s", n.RequestID, n.EvidenceCID),
	})
}
