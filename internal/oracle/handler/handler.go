// Package handler exposes the attestation gateway over HTTP. Fulfillment is
// reserved for callers holding the oracle role.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifelink/internal/oracle"
	"lifelink/internal/policy"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/httputil"
	"lifelink/pkg/requestcontext"
)

// Service is the slice of the gateway the HTTP layer consumes.
type Service interface {
	RequestVerification(ctx context.Context, donor domain.DonorID) (*oracle.DeathVerificationRequest, error)
	GetStatus(ctx context.Context, id domain.RequestID) (oracle.VerificationStatus, error)
	Fulfill(ctx context.Context, id domain.RequestID, deceased bool, evidenceCID, oracleID string) (*oracle.DeathVerificationRequest, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the oracle routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/oracle/requests", h.handleRequestVerification)
	r.Get("/oracle/requests/{requestID}", h.handleGetStatus)
	r.Post("/oracle/requests/{requestID}/fulfill", h.handleFulfill)
}

type requestVerificationRequest struct {
	DonorAddress string `json:"donor_address"`

	donor domain.DonorID
}

func (req *requestVerificationRequest) Validate() error {
	var err error
	req.donor, err = domain.ParseDonorID(req.DonorAddress)
	return err
}

type fulfillRequest struct {
	IsDeceased  bool   `json:"is_deceased"`
	EvidenceCID string `json:"evidence_cid"`
}

func (req *fulfillRequest) Validate() error {
	if req.IsDeceased && req.EvidenceCID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "a deceased verdict requires evidence")
	}
	return nil
}

type requestResponse struct {
	ID           string    `json:"id"`
	DonorAddress string    `json:"donor_address"`
	RequestedAt  time.Time `json:"requested_at"`
	Fulfilled    bool      `json:"fulfilled"`
}

func newRequestResponse(req *oracle.DeathVerificationRequest) requestResponse {
	return requestResponse{
		ID:           req.ID.String(),
		DonorAddress: req.Donor.String(),
		RequestedAt:  req.RequestedAt,
		Fulfilled:    req.Fulfilled,
	}
}

func (h *Handler) handleRequestVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRequestVerification); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[requestVerificationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	created, err := h.service.RequestVerification(ctx, req.donor)
	if err != nil {
		h.logger.WarnContext(ctx, "verification request failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newRequestResponse(created))
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadVerification); err != nil {
		httputil.WriteError(w, err)
		return
	}

	requestID, err := domain.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.service.GetStatus(ctx, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "verification status lookup failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleFulfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionFulfillVerification); err != nil {
		httputil.WriteError(w, err)
		return
	}

	requestID, err := domain.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[fulfillRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	fulfilled, err := h.service.Fulfill(ctx, requestID, req.IsDeceased, req.EvidenceCID, requestcontext.Actor(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "verification fulfillment failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newRequestResponse(fulfilled))
}
