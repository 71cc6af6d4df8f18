package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/sentinel"
)

// Service wraps the record store with validation and status-transition
// enforcement. Allocation mutates recipients only through the transition
// calls here, never by writing records directly.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("registry store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterDonor records a new donor. Registration is idempotent on address;
// re-registering overwrites the record, matching last-write-wins semantics.
func (s *Service) RegisterDonor(ctx context.Context, addr domain.DonorID, blood domain.BloodType, region domain.Region, now time.Time) (*Donor, error) {
	if addr.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor address is required")
	}
	if !blood.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor blood type is invalid")
	}
	d := &Donor{Address: addr, BloodType: blood, Status: DonorRegistered, Region: region, RegisteredAt: now}
	if err := s.store.PutDonor(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store donor record")
	}
	return d, nil
}

// RegisterRecipient records a new transplant candidate. The hospital is the
// treating center proposals route to and may be empty.
func (s *Service) RegisterRecipient(ctx context.Context, addr domain.RecipientID, blood domain.BloodType, region domain.Region, hospital domain.HospitalID, now time.Time) (*Recipient, error) {
	if addr.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient address is required")
	}
	if !blood.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient blood type is invalid")
	}
	r := &Recipient{Address: addr, BloodType: blood, Status: RecipientWaiting, Region: region, Hospital: hospital, RegisteredAt: now}
	if err := s.store.PutRecipient(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store recipient record")
	}
	return r, nil
}

// RegisterHospital records a transplant center.
func (s *Service) RegisterHospital(ctx context.Context, addr domain.HospitalID, name string, region domain.Region, accredited bool) (*Hospital, error) {
	if addr.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "hospital address is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "hospital name is required")
	}
	h := &Hospital{Address: addr, Name: name, Region: region, Accredited: accredited}
	if err := s.store.PutHospital(ctx, h); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store hospital record")
	}
	return h, nil
}

// GetDonor resolves a donor record.
func (s *Service) GetDonor(ctx context.Context, addr domain.DonorID) (*Donor, error) {
	d, err := s.store.GetDonor(ctx, addr)
	if err != nil {
		return nil, translateLookup(err, "donor")
	}
	return d, nil
}

// GetRecipient resolves a recipient record.
func (s *Service) GetRecipient(ctx context.Context, addr domain.RecipientID) (*Recipient, error) {
	r, err := s.store.GetRecipient(ctx, addr)
	if err != nil {
		return nil, translateLookup(err, "recipient")
	}
	return r, nil
}

// GetHospital resolves a hospital record.
func (s *Service) GetHospital(ctx context.Context, addr domain.HospitalID) (*Hospital, error) {
	h, err := s.store.GetHospital(ctx, addr)
	if err != nil {
		return nil, translateLookup(err, "hospital")
	}
	return h, nil
}

// SetRecipientStatus applies a validated status transition.
func (s *Service) SetRecipientStatus(ctx context.Context, addr domain.RecipientID, next RecipientStatus) error {
	r, err := s.GetRecipient(ctx, addr)
	if err != nil {
		return err
	}
	if r.Status == next {
		return nil
	}
	if !r.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("recipient status cannot move from %s to %s", r.Status, next))
	}
	r.Status = next
	if err := s.store.PutRecipient(ctx, r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update recipient status")
	}
	s.logger.InfoContext(ctx, "recipient status updated", "recipient", addr, "status", next)
	return nil
}

// MarkDonorDeathVerified moves a donor to DeathVerified. Idempotent: repeat
// notifications for an already-verified donor are no-ops, so the oracle
// release reactor can safely replay.
func (s *Service) MarkDonorDeathVerified(ctx context.Context, addr domain.DonorID) error {
	d, err := s.GetDonor(ctx, addr)
	if err != nil {
		return err
	}
	if d.Status == DonorDeathVerified || d.Status == DonorOrgansRetrieved {
		return nil
	}
	if !d.Status.CanTransitionTo(DonorDeathVerified) {
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("donor status cannot move from %s to %s", d.Status, DonorDeathVerified))
	}
	d.Status = DonorDeathVerified
	if err := s.store.PutDonor(ctx, d); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update donor status")
	}
	s.logger.InfoContext(ctx, "donor death verified", "donor", addr)
	return nil
}

// MarkDonorOrgansRetrieved moves a death-verified donor to OrgansRetrieved.
func (s *Service) MarkDonorOrgansRetrieved(ctx context.Context, addr domain.DonorID) error {
	d, err := s.GetDonor(ctx, addr)
	if err != nil {
		return err
	}
	if d.Status == DonorOrgansRetrieved {
		return nil
	}
	if !d.Status.CanTransitionTo(DonorOrgansRetrieved) {
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("donor status cannot move from %s to %s", d.Status, DonorOrgansRetrieved))
	}
	d.Status = DonorOrgansRetrieved
	if err := s.store.PutDonor(ctx, d); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update donor status")
	}
	return nil
}

func translateLookup(err error, what string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, what+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up "+what)
}
