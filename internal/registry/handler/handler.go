// Package handler exposes the registration records over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifelink/internal/policy"
	"lifelink/internal/registry"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/httputil"
	"lifelink/pkg/requestcontext"
)

// Service is the slice of the registry the HTTP layer consumes.
type Service interface {
	RegisterDonor(ctx context.Context, addr domain.DonorID, blood domain.BloodType, region domain.Region, now time.Time) (*registry.Donor, error)
	RegisterRecipient(ctx context.Context, addr domain.RecipientID, blood domain.BloodType, region domain.Region, hospital domain.HospitalID, now time.Time) (*registry.Recipient, error)
	RegisterHospital(ctx context.Context, addr domain.HospitalID, name string, region domain.Region, accredited bool) (*registry.Hospital, error)
	GetDonor(ctx context.Context, addr domain.DonorID) (*registry.Donor, error)
	GetRecipient(ctx context.Context, addr domain.RecipientID) (*registry.Recipient, error)
	GetHospital(ctx context.Context, addr domain.HospitalID) (*registry.Hospital, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the registry routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/donors", h.handleRegisterDonor)
	r.Get("/registry/donors/{address}", h.handleGetDonor)
	r.Post("/registry/recipients", h.handleRegisterRecipient)
	r.Get("/registry/recipients/{address}", h.handleGetRecipient)
	r.Post("/registry/hospitals", h.handleRegisterHospital)
	r.Get("/registry/hospitals/{address}", h.handleGetHospital)
}

func (h *Handler) handleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRegisterDonor); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[registerDonorRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	donor, err := h.service.RegisterDonor(ctx, req.donor, req.blood, req.region, requestcontext.Now(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "donor registration failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newDonorResponse(donor))
}

func (h *Handler) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadRegistry); err != nil {
		httputil.WriteError(w, err)
		return
	}

	addr, err := domain.ParseDonorID(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	donor, err := h.service.GetDonor(ctx, addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newDonorResponse(donor))
}

func (h *Handler) handleRegisterRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRegisterRecipient); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[registerRecipientRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	rec, err := h.service.RegisterRecipient(ctx, req.recipient, req.blood, req.region, req.hospital, requestcontext.Now(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "recipient registration failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newRecipientResponse(rec))
}

func (h *Handler) handleGetRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadRegistry); err != nil {
		httputil.WriteError(w, err)
		return
	}

	addr, err := domain.ParseRecipientID(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.GetRecipient(ctx, addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newRecipientResponse(rec))
}

func (h *Handler) handleRegisterHospital(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionRegisterHospital); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[registerHospitalRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	hosp, err := h.service.RegisterHospital(ctx, req.hospital, req.Name, req.region, req.Accredited)
	if err != nil {
		h.logger.WarnContext(ctx, "hospital registration failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newHospitalResponse(hosp))
}

func (h *Handler) handleGetHospital(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := policy.Require(ctx, policy.ActionReadRegistry); err != nil {
		httputil.WriteError(w, err)
		return
	}

	addr, err := domain.ParseHospitalID(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	hosp, err := h.service.GetHospital(ctx, addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newHospitalResponse(hosp))
}
