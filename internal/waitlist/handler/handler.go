// Package handler exposes the waiting list manager over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifelink/internal/policy"
	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/httputil"
	"lifelink/pkg/requestcontext"
)

// Service is the slice of the waiting list manager the HTTP layer consumes.
type Service interface {
	Add(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType, urgency int, region domain.Region, priority waitlist.Priority, now time.Time) (*waitlist.Entry, error)
	ListByOrganRegion(ctx context.Context, organType domain.OrganType, region domain.Region) ([]waitlist.Entry, error)
	Prioritize(ctx context.Context, organType domain.OrganType, region domain.Region) ([]waitlist.Entry, error)
	UpdatePriority(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType, urgency int, priority waitlist.Priority, region domain.Region) (*waitlist.Entry, error)
	Deactivate(ctx context.Context, recipient domain.RecipientID, organType domain.OrganType) error
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the waiting list routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/waitlist", h.handleAdd)
	r.Get("/waitlist/{organType}/{region}", h.handleList)
	r.Put("/waitlist/priority", h.handleUpdatePriority)
	r.Delete("/waitlist/{organType}/{recipient}", h.handleDeactivate)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionManageWaitlist); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[addRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	entry, err := h.service.Add(ctx, req.recipient, req.organType, req.UrgencyLevel, req.region, req.priority, requestcontext.Now(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "waitlist add failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newEntryResponse(entry))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadWaitlist); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organType, err := domain.ParseOrganType(chi.URLParam(r, "organType"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	region, err := domain.ParseRegion(chi.URLParam(r, "region"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	list := h.service.ListByOrganRegion
	if r.URL.Query().Get("prioritized") == "true" {
		list = h.service.Prioritize
	}
	entries, err := list(ctx, organType, region)
	if err != nil {
		h.logger.ErrorContext(ctx, "waitlist query failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newQueueResponse(organType, region, entries))
}

func (h *Handler) handleUpdatePriority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionManageWaitlist); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[updatePriorityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	entry, err := h.service.UpdatePriority(ctx, req.recipient, req.organType, req.UrgencyLevel, req.priority, req.region)
	if err != nil {
		h.logger.WarnContext(ctx, "waitlist priority update failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newEntryResponse(entry))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionManageWaitlist); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organType, err := domain.ParseOrganType(chi.URLParam(r, "organType"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipient, err := domain.ParseRecipientID(chi.URLParam(r, "recipient"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Deactivate(ctx, recipient, organType); err != nil {
		h.logger.ErrorContext(ctx, "waitlist deactivation failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
