package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lifelink/internal/allocation/metrics"
	"lifelink/internal/allocation/ports"
	"lifelink/internal/audit"
	"lifelink/internal/matching/scorer"
	"lifelink/internal/registry"
	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/sentinel"
	"lifelink/pkg/requestcontext"
)

// scoreConcurrency bounds the candidate scoring fan-out.
const scoreConcurrency = 8

// Service is the allocation engine. It owns organ and proposal state and
// coordinates the registry, waiting list, and scorer through ports.
//
// Mutations are serialized per entity: organ lock first, then recipient
// lock, always in that order.
type Service struct {
	organs    OrganStore
	proposals ProposalStore
	registry  ports.Registry
	waitlist  ports.Waitlist

	policy  scorer.Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   ports.AuditPublisher

	organLocks     *keyedLocks
	recipientLocks *keyedLocks
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p ports.AuditPublisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithPolicy overrides the default scoring policy.
func WithPolicy(p scorer.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func New(organs OrganStore, proposals ProposalStore, reg ports.Registry, wl ports.Waitlist, opts ...Option) (*Service, error) {
	if organs == nil {
		return nil, fmt.Errorf("organ store is required")
	}
	if proposals == nil {
		return nil, fmt.Errorf("proposal store is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if wl == nil {
		return nil, fmt.Errorf("waitlist is required")
	}
	svc := &Service{
		organs:         organs,
		proposals:      proposals,
		registry:       reg,
		waitlist:       wl,
		policy:         scorer.DefaultPolicy(),
		logger:         slog.Default(),
		organLocks:     newKeyedLocks(),
		recipientLocks: newKeyedLocks(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.policy.Validate(); err != nil {
		return nil, fmt.Errorf("scoring policy: %w", err)
	}
	return svc, nil
}

// RegisterOrganParams carries the facts for a newly retrieved organ.
type RegisterOrganParams struct {
	OrganType    domain.OrganType
	BloodType    domain.BloodType
	Donor        domain.DonorID
	Region       domain.Region
	IsEmergency  bool
	UrgencyLevel int
	Validated    bool
	ExpiresAt    time.Time
}

// RegisterOrgan creates an Available organ record. The donor must have a
// verified death attestation; the first registration also moves the donor to
// OrgansRetrieved.
func (s *Service) RegisterOrgan(ctx context.Context, params RegisterOrganParams) (*Organ, error) {
	if !params.OrganType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "organ type is invalid")
	}
	if !params.BloodType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "blood type is invalid")
	}
	if params.Donor.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor address is required")
	}
	if _, err := domain.ParseUrgency(params.UrgencyLevel); err != nil {
		return nil, err
	}

	donor, err := s.registry.GetDonor(ctx, params.Donor)
	if err != nil {
		return nil, err
	}
	if donor.Status == registry.DonorRegistered {
		return nil, dErrors.New(dErrors.CodeNotEligible, "donor death has not been verified")
	}

	now := requestcontext.Now(ctx)
	organ := &Organ{
		ID:               domain.NewOrganID(),
		OrganType:        params.OrganType,
		BloodType:        params.BloodType,
		Donor:            params.Donor,
		Region:           params.Region,
		Status:           OrganAvailable,
		IsEmergency:      params.IsEmergency,
		UrgencyLevel:     params.UrgencyLevel,
		MedicalValidated: params.Validated,
		DonatedAt:        now,
		ExpiresAt:        params.ExpiresAt,
	}
	if err := s.organs.Create(ctx, organ); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store organ")
	}

	if donor.Status == registry.DonorDeathVerified {
		if err := s.registry.MarkDonorOrgansRetrieved(ctx, params.Donor); err != nil {
			s.logger.WarnContext(ctx, "donor retrieval transition failed",
				"donor", params.Donor, "error", err)
		}
	}

	s.metrics.IncTransition(organ.OrganType.String(), string(OrganAvailable))
	ports.LogAudit(ctx, s.logger, s.audit, audit.ActionOrganRegistered, audit.Event{
		Actor:   requestcontext.Actor(ctx),
		OrganID: organ.ID.String(),
		Donor:   params.Donor.String(),
		Detail:  fmt.Sprintf("type=%s blood=%s region=%s", organ.OrganType, organ.BloodType, organ.Region),
	})
	return organ, nil
}

// GetOrgan looks up one organ.
func (s *Service) GetOrgan(ctx context.Context, id domain.OrganID) (*Organ, error) {
	organ, err := s.organs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "organ not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load organ")
	}
	return organ, nil
}

// GetProposal looks up one match proposal.
func (s *Service) GetProposal(ctx context.Context, id domain.ProposalID) (*MatchProposal, error) {
	p, err := s.proposals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "proposal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load proposal")
	}
	return p, nil
}

// FindCompatibleRecipients returns the recipients with an active waiting-list
// entry for the organ's type, a live medical status, and a blood type the
// organ can donate to. No scoring is performed.
func (s *Service) FindCompatibleRecipients(ctx context.Context, organID domain.OrganID) ([]domain.RecipientID, error) {
	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}

	entries, err := s.waitlist.ListByOrganType(ctx, organ.OrganType)
	if err != nil {
		return nil, err
	}

	var out []domain.RecipientID
	for _, e := range entries {
		rec, err := s.registry.GetRecipient(ctx, e.Recipient)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		if !recipientLive(rec.Status) {
			continue
		}
		if organ.BloodType.CanDonateTo(rec.BloodType) {
			out = append(out, rec.Address)
		}
	}
	return out, nil
}

// recipientLive reports whether a recipient can still receive an organ.
func recipientLive(status registry.RecipientStatus) bool {
	switch status {
	case registry.RecipientWaiting, registry.RecipientCritical, registry.RecipientStable:
		return true
	default:
		return false
	}
}

// CalculateMatchScore scores one (organ, recipient) pair. Fails with NotFound
// when either reference does not resolve.
func (s *Service) CalculateMatchScore(ctx context.Context, organID domain.OrganID, recipientID domain.RecipientID) (scorer.MatchScore, error) {
	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return scorer.MatchScore{}, err
	}
	rec, err := s.registry.GetRecipient(ctx, recipientID)
	if err != nil {
		return scorer.MatchScore{}, err
	}
	entry, err := s.waitlist.GetActive(ctx, recipientID, organ.OrganType)
	if err != nil {
		return scorer.MatchScore{}, err
	}
	return s.score(ctx, organ, rec, *entry), nil
}

func (s *Service) score(ctx context.Context, organ *Organ, rec *registry.Recipient, entry waitlist.Entry) scorer.MatchScore {
	return scorer.Score(
		scorer.OrganFacts{
			OrganType:        organ.OrganType,
			BloodType:        organ.BloodType,
			Region:           organ.Region,
			MedicalValidated: organ.MedicalValidated,
		},
		scorer.RecipientFacts{
			BloodType:    rec.BloodType,
			Region:       entry.Region,
			UrgencyLevel: entry.UrgencyLevel,
			WaitingSince: entry.AddedAt,
		},
		s.policy,
		requestcontext.Now(ctx),
	)
}

// RankCandidates scores every compatible candidate for an organ and returns
// them ordered by total score descending, then time on the list, then
// insertion sequence. Scoring fans out with bounded concurrency.
func (s *Service) RankCandidates(ctx context.Context, organID domain.OrganID) ([]Candidate, error) {
	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}

	entries, err := s.waitlist.ListByOrganType(ctx, organ.OrganType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	candidates, err := s.scoreEntries(ctx, organ, entries, -1)
	if err != nil {
		return nil, err
	}
	sortCandidates(candidates)
	s.metrics.ObserveRank(organ.OrganType.String(), time.Since(start))
	return candidates, nil
}

// scoreEntries scores entries concurrently, keeping only compatible
// candidates. maxDistance < 0 disables the distance filter.
func (s *Service) scoreEntries(ctx context.Context, organ *Organ, entries []waitlist.Entry, maxDistance int) ([]Candidate, error) {
	var (
		mu         sync.Mutex
		candidates []Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)

	for _, entry := range entries {
		entry := entry
		if maxDistance >= 0 && s.policy.Distance(organ.Region, entry.Region) > maxDistance {
			continue
		}
		g.Go(func() error {
			rec, err := s.registry.GetRecipient(gctx, entry.Recipient)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return nil
				}
				return err
			}
			if !recipientLive(rec.Status) {
				return nil
			}
			score := s.score(gctx, organ, rec, entry)
			if !score.IsCompatible {
				return nil
			}
			mu.Lock()
			candidates = append(candidates, Candidate{Entry: entry, Score: score})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// sortCandidates orders by score descending, then earliest added, then
// insertion sequence. The result is a deterministic total order.
func sortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if !a.Entry.AddedAt.Equal(b.Entry.AddedAt) {
			return a.Entry.AddedAt.Before(b.Entry.AddedAt)
		}
		return a.Entry.Seq < b.Entry.Seq
	})
}

// AllocateOrgan binds an Available organ to a recipient with an active
// waiting-list entry for its type. On success the organ is Matched with the
// recipient assigned, the entry is deactivated, and a MatchProposal in status
// Matched is created. The four effects apply together or not at all.
//
// The second of two concurrent calls on the same organ fails with
// NotEligible: the organ is no longer Available by the time it acquires the
// organ lock.
func (s *Service) AllocateOrgan(ctx context.Context, organID domain.OrganID, recipientID domain.RecipientID) (*MatchProposal, error) {
	return s.allocate(ctx, organID, recipientID, "normal")
}

func (s *Service) allocate(ctx context.Context, organID domain.OrganID, recipientID domain.RecipientID, path string) (*MatchProposal, error) {
	if recipientID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient address is required")
	}

	unlockOrgan := s.organLocks.Lock(organID.String())
	defer unlockOrgan()
	unlockRecipient := s.recipientLocks.Lock(recipientID.String())
	defer unlockRecipient()

	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}
	if organ.Status != OrganAvailable {
		s.metrics.IncAllocation(organ.OrganType.String(), path, "not_eligible")
		return nil, dErrors.New(dErrors.CodeNotEligible,
			fmt.Sprintf("organ is %s, not available", organ.Status))
	}

	rec, err := s.registry.GetRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !recipientLive(rec.Status) {
		s.metrics.IncAllocation(organ.OrganType.String(), path, "not_eligible")
		return nil, dErrors.New(dErrors.CodeNotEligible,
			fmt.Sprintf("recipient is %s and cannot receive an organ", rec.Status))
	}
	if !organ.BloodType.CanDonateTo(rec.BloodType) {
		s.metrics.IncAllocation(organ.OrganType.String(), path, "not_eligible")
		return nil, dErrors.New(dErrors.CodeNotEligible, "blood types are incompatible")
	}

	entry, err := s.waitlist.GetActive(ctx, recipientID, organ.OrganType)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.IncAllocation(organ.OrganType.String(), path, "not_eligible")
			return nil, dErrors.New(dErrors.CodeNotEligible,
				"recipient has no active waiting list entry for this organ type")
		}
		return nil, err
	}

	score := s.score(ctx, organ, rec, *entry)
	hospital := entryHospital(rec)

	// Commit point: organ first, then proposal, then waitlist. A failure in
	// a later step reverses the earlier ones under the held locks, so
	// readers see either none of the four effects or all of them.
	organ.Status = OrganMatched
	organ.AssignedRecipient = recipientID
	organ.AssignedHospital = hospital
	if err := s.organs.Update(ctx, organ); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update organ")
	}

	proposal := &MatchProposal{
		ID:         domain.NewProposalID(),
		OrganID:    organID,
		Recipient:  recipientID,
		Hospital:   hospital,
		Score:      score,
		Status:     ProposalMatched,
		ProposedAt: requestcontext.Now(ctx),
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		s.revertOrganToAvailable(ctx, organ)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create proposal")
	}

	if err := s.waitlist.Deactivate(ctx, recipientID, organ.OrganType); err != nil {
		s.revertOrganToAvailable(ctx, organ)
		proposal.Status = ProposalRejected
		if uerr := s.proposals.Update(ctx, proposal); uerr != nil {
			s.logger.ErrorContext(ctx, "proposal revert failed", "proposal_id", proposal.ID, "error", uerr)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to deactivate waiting list entry")
	}

	s.metrics.IncAllocation(organ.OrganType.String(), path, "allocated")
	s.metrics.IncTransition(organ.OrganType.String(), string(OrganMatched))
	action := audit.ActionOrganAllocated
	if path == "emergency" {
		action = audit.ActionEmergencyMatch
	}
	ports.LogAudit(ctx, s.logger, s.audit, action, audit.Event{
		Actor:     requestcontext.Actor(ctx),
		OrganID:   organID.String(),
		Recipient: recipientID.String(),
		Detail:    fmt.Sprintf("proposal=%s score=%d", proposal.ID, score.Total),
	})
	return proposal, nil
}

func (s *Service) revertOrganToAvailable(ctx context.Context, organ *Organ) {
	organ.Status = OrganAvailable
	organ.AssignedRecipient = ""
	organ.AssignedHospital = ""
	if err := s.organs.Update(ctx, organ); err != nil {
		s.logger.ErrorContext(ctx, "organ revert failed", "organ_id", organ.ID, "error", err)
	}
}

// entryHospital picks the treating hospital recorded for the recipient.
// Recipients without one leave the proposal's hospital unset.
func entryHospital(rec *registry.Recipient) domain.HospitalID {
	return rec.Hospital
}

// TriggerEmergencyMatch allocates an emergency organ across regional
// boundaries. Candidates within maxDistance of the organ's region are scored
// and the best compatible one wins; fails with NoCandidate when none
// qualifies.
func (s *Service) TriggerEmergencyMatch(ctx context.Context, organID domain.OrganID, maxDistance int) (*MatchProposal, error) {
	if maxDistance < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "max distance cannot be negative")
	}

	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}
	if organ.Status != OrganAvailable {
		return nil, dErrors.New(dErrors.CodeNotEligible,
			fmt.Sprintf("organ is %s, not available", organ.Status))
	}
	if !organ.IsEmergency && organ.UrgencyLevel < domain.UrgencyMax {
		return nil, dErrors.New(dErrors.CodeNotEligible,
			"organ is neither flagged emergency nor at maximum urgency")
	}

	entries, err := s.waitlist.ListByOrganType(ctx, organ.OrganType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	candidates, err := s.scoreEntries(ctx, organ, entries, maxDistance)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRank(organ.OrganType.String(), time.Since(start))

	if len(candidates) == 0 {
		s.metrics.IncAllocation(organ.OrganType.String(), "emergency", "no_candidate")
		return nil, dErrors.New(dErrors.CodeNoCandidate,
			"no compatible candidate within the requested distance")
	}
	sortCandidates(candidates)

	// Allocation re-checks availability under the organ lock, so a race
	// with another caller resolves to NotEligible here, never a double
	// match.
	return s.allocate(ctx, organID, candidates[0].Entry.Recipient, "emergency")
}

// MarkTransplanted finishes a Matched organ. The open proposal is confirmed
// and the recipient's medical status moves to Transplanted.
func (s *Service) MarkTransplanted(ctx context.Context, organID domain.OrganID) (*Organ, error) {
	unlock := s.organLocks.Lock(organID.String())
	defer unlock()

	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}
	if organ.Status != OrganMatched {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("organ is %s; only matched organs can be transplanted", organ.Status))
	}

	organ.Status = OrganTransplanted
	if err := s.organs.Update(ctx, organ); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update organ")
	}

	if err := s.closeOpenProposal(ctx, organID, ProposalConfirmed); err != nil {
		s.logger.WarnContext(ctx, "proposal confirmation failed", "organ_id", organID, "error", err)
	}
	if err := s.registry.SetRecipientStatus(ctx, organ.AssignedRecipient, registry.RecipientTransplanted); err != nil {
		s.logger.WarnContext(ctx, "recipient status update failed",
			"recipient", organ.AssignedRecipient, "error", err)
	}

	s.metrics.IncTransition(organ.OrganType.String(), string(OrganTransplanted))
	ports.LogAudit(ctx, s.logger, s.audit, audit.ActionOrganTransplanted, audit.Event{
		Actor:     requestcontext.Actor(ctx),
		OrganID:   organID.String(),
		Recipient: organ.AssignedRecipient.String(),
	})
	return organ, nil
}

// MarkExpired retires an Available or Matched organ. A previously matched
// recipient's waiting-list entry stays inactive; putting them back on the
// list requires an explicit re-add after review.
func (s *Service) MarkExpired(ctx context.Context, organID domain.OrganID) (*Organ, error) {
	unlock := s.organLocks.Lock(organID.String())
	defer unlock()

	organ, err := s.GetOrgan(ctx, organID)
	if err != nil {
		return nil, err
	}
	if organ.Status != OrganAvailable && organ.Status != OrganMatched {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("organ is %s and cannot expire", organ.Status))
	}

	wasMatched := organ.Status == OrganMatched
	recipient := organ.AssignedRecipient
	organ.Status = OrganExpired
	organ.AssignedRecipient = ""
	organ.AssignedHospital = ""
	if err := s.organs.Update(ctx, organ); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update organ")
	}

	if wasMatched {
		if err := s.closeOpenProposal(ctx, organID, ProposalExpired); err != nil {
			s.logger.WarnContext(ctx, "proposal expiry failed", "organ_id", organID, "error", err)
		}
	}

	s.metrics.IncTransition(organ.OrganType.String(), string(OrganExpired))
	ports.LogAudit(ctx, s.logger, s.audit, audit.ActionOrganExpired, audit.Event{
		Actor:     requestcontext.Actor(ctx),
		OrganID:   organID.String(),
		Recipient: recipient.String(),
	})
	return organ, nil
}

// RejectProposal lets a hospital decline an open proposal. The organ returns
// to Available with its assignment cleared; re-allocating it is an explicit
// follow-up decision, never automatic.
func (s *Service) RejectProposal(ctx context.Context, proposalID domain.ProposalID) (*MatchProposal, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	unlock := s.organLocks.Lock(proposal.OrganID.String())
	defer unlock()

	// Re-read under the lock; a concurrent transplant may have closed it.
	proposal, err = s.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.Status.open() {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("proposal is %s and cannot be rejected", proposal.Status))
	}

	proposal.Status = ProposalRejected
	if err := s.proposals.Update(ctx, proposal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update proposal")
	}

	organ, err := s.GetOrgan(ctx, proposal.OrganID)
	if err != nil {
		return nil, err
	}
	if organ.Status == OrganMatched {
		s.revertOrganToAvailable(ctx, organ)
		s.metrics.IncTransition(organ.OrganType.String(), string(OrganAvailable))
	}

	ports.LogAudit(ctx, s.logger, s.audit, audit.ActionProposalRejected, audit.Event{
		Actor:     requestcontext.Actor(ctx),
		OrganID:   proposal.OrganID.String(),
		Recipient: proposal.Recipient.String(),
		Detail:    fmt.Sprintf("proposal=%s", proposal.ID),
	})
	return proposal, nil
}

// closeOpenProposal moves the organ's single open proposal to a terminal
// status. Missing open proposals are tolerated.
func (s *Service) closeOpenProposal(ctx context.Context, organID domain.OrganID, status ProposalStatus) error {
	proposals, err := s.proposals.ListByOrgan(ctx, organID)
	if err != nil {
		return err
	}
	for i := range proposals {
		if proposals[i].Status.open() {
			proposals[i].Status = status
			return s.proposals.Update(ctx, &proposals[i])
		}
	}
	return nil
}
