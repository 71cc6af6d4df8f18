package waitlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"lifelink/internal/waitlist/metrics"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/sentinel"
)

// Service is the waiting list manager. It validates mutations, translates
// store sentinels into domain errors, and owns the prioritization order.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("waitlist store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Add registers a recipient's need for an organ type. Fails with
// DuplicateEntry when an active entry already exists for the pair.
func (s *Service) Add(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType, urgency int, region domain.Region, priority Priority, now time.Time) (*Entry, error) {
	if recipient.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient address is required")
	}
	if !organType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "organ type is invalid")
	}
	if _, err := domain.ParseUrgency(urgency); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "priority is invalid")
	}

	e := &Entry{
		Recipient:    recipient,
		OrganType:    organType,
		UrgencyLevel: urgency,
		Region:       region,
		Priority:     priority,
		AddedAt:      now,
	}
	if err := s.store.Insert(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncAdded(organType.String(), "duplicate")
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateEntry,
				"recipient already has an active entry for this organ type")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store waiting list entry")
	}

	s.metrics.IncAdded(organType.String(), "added")
	s.metrics.IncDepth(organType.String(), region.String())
	s.logger.InfoContext(ctx, "waiting list entry added",
		"recipient", recipient, "organ_type", organType, "region", region, "priority", priority)
	return e, nil
}

// ListByOrganRegion returns the raw queue for one (organ type, region) pair
// in registration order. No priority ordering is applied here.
func (s *Service) ListByOrganRegion(ctx context.Context, organType domain.OrganType, region domain.Region) ([]Entry, error) {
	entries, err := s.store.ListByOrganRegion(ctx, organType, region)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list waiting list entries")
	}
	return entries, nil
}

// ListByOrganType returns every active entry for an organ type across all
// regions, in registration order. Emergency matching scans this.
func (s *Service) ListByOrganType(ctx context.Context, organType domain.OrganType) ([]Entry, error) {
	entries, err := s.store.ListByOrganType(ctx, organType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list waiting list entries")
	}
	return entries, nil
}

// GetActive resolves the single active entry for a (recipient, organ type)
// pair. Fails with NotFound when none exists.
func (s *Service) GetActive(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) (*Entry, error) {
	e, err := s.store.GetActive(ctx, recipient, organType)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "no active waiting list entry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up waiting list entry")
	}
	return e, nil
}

// Prioritize returns the queue for one (organ type, region) pair ordered by
// the allocation key: priority band descending, then urgency descending, then
// time on the list (earliest added first), with insertion sequence as the
// final tie-break. The result is a deterministic total order.
func (s *Service) Prioritize(ctx context.Context, organType domain.OrganType, region domain.Region) ([]Entry, error) {
	entries, err := s.ListByOrganRegion(ctx, organType, region)
	if err != nil {
		return nil, err
	}
	SortByAllocationKey(entries)
	return entries, nil
}

// SortByAllocationKey orders entries in place by the composite queue key.
func SortByAllocationKey(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if a.UrgencyLevel != b.UrgencyLevel {
			return a.UrgencyLevel > b.UrgencyLevel
		}
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.Before(b.AddedAt)
		}
		return a.Seq < b.Seq
	})
}

// UpdatePriority mutates the active entry for a pair in place. Fails with
// NotFound when no active entry exists.
func (s *Service) UpdatePriority(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType, urgency int, priority Priority, region domain.Region) (*Entry, error) {
	if _, err := domain.ParseUrgency(urgency); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "priority is invalid")
	}

	current, err := s.GetActive(ctx, recipient, organType)
	if err != nil {
		return nil, err
	}

	prevRegion := current.Region
	current.UrgencyLevel = urgency
	current.Priority = priority
	current.Region = region
	if err := s.store.Update(ctx, current); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "no active waiting list entry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update waiting list entry")
	}

	if prevRegion != region {
		s.metrics.DecDepth(organType.String(), prevRegion.String())
		s.metrics.IncDepth(organType.String(), region.String())
	}
	s.logger.InfoContext(ctx, "waiting list entry updated",
		"recipient", recipient, "organ_type", organType, "urgency", urgency, "priority", priority)
	return current, nil
}

// Deactivate retires the active entry for a pair. Idempotent: deactivating a
// missing or already-inactive entry is a no-op, not an error.
func (s *Service) Deactivate(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) error {
	e, err := s.store.GetActive(ctx, recipient, organType)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up waiting list entry")
	}
	if err := s.store.Deactivate(ctx, recipient, organType); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to deactivate waiting list entry")
	}
	s.metrics.DecDepth(e.OrganType.String(), e.Region.String())
	s.logger.InfoContext(ctx, "waiting list entry deactivated",
		"recipient", recipient, "organ_type", organType)
	return nil
}
