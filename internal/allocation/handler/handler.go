// Package handler exposes the allocation engine over HTTP. Handlers stay
// thin: decode, authorize against the policy table, delegate, encode.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifelink/internal/allocation"
	"lifelink/internal/matching/scorer"
	"lifelink/internal/policy"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/httputil"
	"lifelink/pkg/requestcontext"
)

// Service is the slice of the allocation engine the HTTP layer consumes.
type Service interface {
	RegisterOrgan(ctx context.Context, params allocation.RegisterOrganParams) (*allocation.Organ, error)
	GetOrgan(ctx context.Context, id domain.OrganID) (*allocation.Organ, error)
	FindCompatibleRecipients(ctx context.Context, organID domain.OrganID) ([]domain.RecipientID, error)
	CalculateMatchScore(ctx context.Context, organID domain.OrganID, recipientID domain.RecipientID) (scorer.MatchScore, error)
	RankCandidates(ctx context.Context, organID domain.OrganID) ([]allocation.Candidate, error)
	AllocateOrgan(ctx context.Context, organID domain.OrganID, recipientID domain.RecipientID) (*allocation.MatchProposal, error)
	TriggerEmergencyMatch(ctx context.Context, organID domain.OrganID, maxDistance int) (*allocation.MatchProposal, error)
	MarkTransplanted(ctx context.Context, organID domain.OrganID) (*allocation.Organ, error)
	MarkExpired(ctx context.Context, organID domain.OrganID) (*allocation.Organ, error)
	RejectProposal(ctx context.Context, proposalID domain.ProposalID) (*allocation.MatchProposal, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the allocation routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/organs", h.handleRegisterOrgan)
	r.Get("/organs/{organID}", h.handleGetOrgan)
	r.Get("/organs/{organID}/compatible", h.handleFindCompatible)
	r.Get("/organs/{organID}/candidates", h.handleRankCandidates)
	r.Post("/organs/{organID}/transplanted", h.handleMarkTransplanted)
	r.Post("/organs/{organID}/expired", h.handleMarkExpired)
	r.Post("/allocations", h.handleAllocate)
	r.Post("/allocations/emergency", h.handleEmergencyMatch)
	r.Post("/match-score", h.handleMatchScore)
	r.Post("/proposals/{proposalID}/reject", h.handleRejectProposal)
}

func (h *Handler) handleRegisterOrgan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRegisterOrgan); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[registerOrganRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	organ, err := h.service.RegisterOrgan(ctx, req.params())
	if err != nil {
		h.writeServiceError(w, r, "organ registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newOrganResponse(organ))
}

func (h *Handler) handleGetOrgan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadRegistry); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organID, err := domain.ParseOrganID(chi.URLParam(r, "organID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	organ, err := h.service.GetOrgan(ctx, organID)
	if err != nil {
		h.writeServiceError(w, r, "organ lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newOrganResponse(organ))
}

func (h *Handler) handleFindCompatible(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionScore); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organID, err := domain.ParseOrganID(chi.URLParam(r, "organID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipients, err := h.service.FindCompatibleRecipients(ctx, organID)
	if err != nil {
		h.writeServiceError(w, r, "compatibility scan failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newCompatibleResponse(organID, recipients))
}

func (h *Handler) handleRankCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionScore); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organID, err := domain.ParseOrganID(chi.URLParam(r, "organID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ranked, err := h.service.RankCandidates(ctx, organID)
	if err != nil {
		h.writeServiceError(w, r, "candidate ranking failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newCandidatesResponse(organID, ranked))
}

func (h *Handler) handleAllocate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionAllocate); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[allocateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	proposal, err := h.service.AllocateOrgan(ctx, req.organID, req.recipientID)
	if err != nil {
		h.writeServiceError(w, r, "allocation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newProposalResponse(proposal))
}

func (h *Handler) handleEmergencyMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionEmergencyMatch); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[emergencyMatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	proposal, err := h.service.TriggerEmergencyMatch(ctx, req.organID, req.MaxDistance)
	if err != nil {
		h.writeServiceError(w, r, "emergency match failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newProposalResponse(proposal))
}

func (h *Handler) handleMatchScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionScore); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[matchScoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	score, err := h.service.CalculateMatchScore(ctx, req.organID, req.recipientID)
	if err != nil {
		h.writeServiceError(w, r, "scoring failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newScoreResponse(req.organID, req.recipientID, score))
}

func (h *Handler) handleMarkTransplanted(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, policy.ActionMarkTransplanted, h.service.MarkTransplanted)
}

func (h *Handler) handleMarkExpired(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, policy.ActionMarkExpired, h.service.MarkExpired)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, action policy.Action, transition func(context.Context, domain.OrganID) (*allocation.Organ, error)) {
	ctx := r.Context()
	if err := policy.Require(ctx, action); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organID, err := domain.ParseOrganID(chi.URLParam(r, "organID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	organ, err := transition(ctx, organID)
	if err != nil {
		h.writeServiceError(w, r, "organ transition failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newOrganResponse(organ))
}

func (h *Handler) handleRejectProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRejectProposal); err != nil {
		httputil.WriteError(w, err)
		return
	}

	proposalID, err := domain.ParseProposalID(chi.URLParam(r, "proposalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	proposal, err := h.service.RejectProposal(ctx, proposalID)
	if err != nil {
		h.writeServiceError(w, r, "proposal rejection failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newProposalResponse(proposal))
}

// writeServiceError logs infrastructure failures at error level and business
// outcomes at warn, then maps the code onto a status.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}
