package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"lifelink/internal/audit"
	"lifelink/internal/oracle/metrics"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/sentinel"
	"lifelink/pkg/requestcontext"
)

// notificationBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind loses notifications; consumers are idempotent
// and can reconcile from the store.
const notificationBuffer = 16

// AuditPublisher records gateway decisions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the attestation gateway. It files verification requests with
// at most one in flight per donor, records fulfillments immutably, and
// broadcasts them to subscribers.
type Service struct {
	store   Store
	logger  *slog.Logger
	audit   AuditPublisher
	metrics *metrics.Metrics

	// Serializes the check-then-create in RequestVerification.
	requestMu sync.Mutex

	subMu       sync.Mutex
	subscribers []chan Notification
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(p AuditPublisher) Option {
	return func(s *Service) { s.audit = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("oracle store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RequestVerification files a death verification request for a donor. Fails
// with AlreadyPending while an earlier request for the same donor is
// unfulfilled.
func (s *Service) RequestVerification(ctx context.Context, donor domain.DonorID) (*DeathVerificationRequest, error) {
	if donor.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor address is required")
	}

	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	latest, err := s.store.LatestForDonor(ctx, donor)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up verification requests")
	}
	if latest != nil && !latest.Fulfilled {
		s.metrics.IncRequest("already_pending")
		return nil, dErrors.New(dErrors.CodeAlreadyPending,
			"a verification request for this donor is already in flight")
	}

	req := &DeathVerificationRequest{
		ID:          domain.NewRequestID(),
		Donor:       donor,
		RequestedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store verification request")
	}

	s.metrics.IncRequest("created")
	s.emitAudit(ctx, audit.ActionVerificationRequest, req, "")
	s.logger.InfoContext(ctx, "death verification requested",
		"request_id", req.ID, "donor", donor)
	return req, nil
}

// GetStatus reports the current state of a request. An unfulfilled request
// is a valid waiting state and returns Fulfilled false without error.
func (s *Service) GetStatus(ctx context.Context, id domain.RequestID) (VerificationStatus, error) {
	req, err := s.getRequest(ctx, id)
	if err != nil {
		return VerificationStatus{}, err
	}
	status := VerificationStatus{Fulfilled: req.Fulfilled}
	if req.Fulfilled {
		status.IsDeceased = req.IsDeceased
		status.EvidenceCID = req.EvidenceCID
	}
	return status, nil
}

// GetRequest resolves a full request record.
func (s *Service) GetRequest(ctx context.Context, id domain.RequestID) (*DeathVerificationRequest, error) {
	return s.getRequest(ctx, id)
}

// Fulfill records the oracle's verdict. A request fulfills exactly once;
// a second attempt fails with InvalidState. Subscribers are notified after
// the fulfillment is durable.
func (s *Service) Fulfill(ctx context.Context, id domain.RequestID, deceased bool, evidenceCID, oracleID string) (*DeathVerificationRequest, error) {
	if oracleID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "oracle identity is required")
	}
	if deceased && evidenceCID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a deceased verdict requires evidence")
	}

	s.requestMu.Lock()
	defer s.requestMu.Unlock()

	req, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Fulfilled {
		return nil, dErrors.New(dErrors.CodeInvalidState, "verification request is already fulfilled")
	}

	req.Fulfilled = true
	req.IsDeceased = deceased
	req.EvidenceCID = evidenceCID
	req.OracleID = oracleID
	req.FulfilledAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store fulfillment")
	}

	s.metrics.IncFulfillment(deceased)
	s.broadcast(ctx, Notification{
		RequestID:   req.ID,
		Donor:       req.Donor,
		IsDeceased:  deceased,
		EvidenceCID: evidenceCID,
	})
	s.emitAudit(ctx, audit.ActionVerificationFulfill, req,
		fmt.Sprintf("deceased=%t oracle=%s", deceased, oracleID))
	s.logger.InfoContext(ctx, "death verification fulfilled",
		"request_id", req.ID, "donor", req.Donor, "deceased", deceased)
	return req, nil
}

// Subscribe returns a channel of fulfillment notifications. Slow consumers
// lose notifications rather than blocking the gateway.
func (s *Service) Subscribe() <-chan Notification {
	ch := make(chan Notification, notificationBuffer)
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Service) broadcast(ctx context.Context, n Notification) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- n:
		default:
			s.logger.WarnContext(ctx, "notification dropped for slow subscriber",
				"request_id", n.RequestID, "donor", n.Donor)
		}
	}
}

func (s *Service) getRequest(ctx context.Context, id domain.RequestID) (*DeathVerificationRequest, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "verification request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load verification request")
	}
	return req, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, req *DeathVerificationRequest, detail string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Actor:  requestcontext.Actor(ctx),
		Action: action,
		Donor:  req.Donor.String(),
		Detail: detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
