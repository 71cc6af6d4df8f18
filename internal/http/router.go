// Package httpapi assembles the public HTTP surface: middleware chain,
// module route groups, health, and metrics.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifelink/pkg/platform/middleware"
)

// Registrar is implemented by each module's handler; it mounts its routes on
// the shared router.
type Registrar interface {
	Register(r chi.Router)
}

// Config collects everything the router needs.
type Config struct {
	Logger         *slog.Logger
	TokenValidator middleware.TokenValidator
	RequestTimeout time.Duration

	// Module handlers. Nil entries are skipped so callers can bring up a
	// partial surface in tests.
	Registry   Registrar
	Waitlist   Registrar
	Allocation Registrar
	Oracle     Registrar
	Audit      Registrar
}

// NewRouter builds the full route tree. All module routes sit behind bearer
// authentication; health and metrics do not.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.TokenValidator != nil {
			r.Use(middleware.RequireAuth(cfg.TokenValidator, logger))
		}
		for _, reg := range []Registrar{cfg.Registry, cfg.Waitlist, cfg.Allocation, cfg.Oracle, cfg.Audit} {
			if reg != nil {
				reg.Register(r)
			}
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
