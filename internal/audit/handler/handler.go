// Package handler exposes read access to the audit trail.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifelink/internal/audit"
	"lifelink/internal/policy"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/httputil"
)

// Reader is the query slice of the audit publisher.
type Reader interface {
	ListByOrgan(ctx context.Context, organID string) ([]audit.Event, error)
	ListByDonor(ctx context.Context, donor string) ([]audit.Event, error)
}

type Handler struct {
	logger *slog.Logger
	reader Reader
}

func New(reader Reader, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, reader: reader}
}

// Register mounts the audit routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/organs/{organID}", h.handleListByOrgan)
	r.Get("/audit/donors/{address}", h.handleListByDonor)
}

func (h *Handler) handleListByOrgan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadAudit); err != nil {
		httputil.WriteError(w, err)
		return
	}

	organID, err := domain.ParseOrganID(chi.URLParam(r, "organID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.reader.ListByOrgan(ctx, organID.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTrailResponse(events))
}

func (h *Handler) handleListByDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadAudit); err != nil {
		httputil.WriteError(w, err)
		return
	}

	donor, err := domain.ParseDonorID(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.reader.ListByDonor(ctx, donor.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTrailResponse(events))
}

type eventResponse struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	OrganID   string    `json:"organ_id,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
	Donor     string    `json:"donor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type trailResponse struct {
	Events []eventResponse `json:"events"`
}

func newTrailResponse(events []audit.Event) trailResponse {
	out := trailResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, eventResponse{
			ID:        e.ID.String(),
			Actor:     e.Actor,
			Action:    e.Action,
			OrganID:   e.OrganID,
			Recipient: e.Recipient,
			Donor:     e.Donor,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		})
	}
	return out
}
