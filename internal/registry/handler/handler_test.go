package handler_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"lifelink/internal/registry"
	"lifelink/internal/registry/handler"
	"lifelink/pkg/requestcontext"
	"lifelink/pkg/testutil"
)

type RegistryHandlerSuite struct {
	suite.Suite
	router *chi.Mux
	svc    *registry.Service
}

func TestRegistryHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistryHandlerSuite))
}

func (s *RegistryHandlerSuite) SetupTest() {
	svc, err := registry.New(registry.NewInMemoryStore(), registry.WithLogger(slog.Default()))
	s.Require().NoError(err)
	s.svc = svc

	s.router = chi.NewRouter()
	handler.New(svc, slog.Default()).Register(s.router)
}

func (s *RegistryHandlerSuite) asCoordinator(req *http.Request) *http.Request {
	return testutil.AsActor(req, "coord-1", requestcontext.RoleCoordinator)
}

func (s *RegistryHandlerSuite) TestRegisterDonor() {
	s.Run("creates donor", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/donors", map[string]any{
			"address":    "donor-1",
			"blood_type": "O-",
			"region":     "region-x",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "address", "donor-1")
		testutil.AssertJSONContains(s.T(), rr, "status", "registered")
	})

	s.Run("rejects invalid blood type", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/donors", map[string]any{
			"address":    "donor-2",
			"blood_type": "Q+",
			"region":     "region-x",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("rejects malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/registry/donors", "{not json")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("forbids the oracle role", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/donors", map[string]any{
			"address":    "donor-3",
			"blood_type": "A+",
			"region":     "region-x",
		})
		rr := testutil.DoRequest(s.router, testutil.AsActor(req, "oracle-1", requestcontext.RoleOracle))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("forbids anonymous callers", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/donors", map[string]any{
			"address":    "donor-4",
			"blood_type": "A+",
			"region":     "region-x",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})
}

func (s *RegistryHandlerSuite) TestGetDonor() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/donors", map[string]any{
		"address":    "donor-1",
		"blood_type": "AB+",
		"region":     "region-y",
	})
	rr := testutil.DoRequest(s.router, s.asCoordinator(req))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	s.Run("returns the record", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/registry/donors/donor-1")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "blood_type", "AB+")
	})

	s.Run("unknown donor is not found", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/registry/donors/donor-unknown")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("hospitals may read", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/registry/donors/donor-1")
		rr := testutil.DoRequest(s.router, testutil.AsActor(req, "hosp-1", requestcontext.RoleHospital))

		testutil.AssertStatusOK(s.T(), rr)
	})
}

func (s *RegistryHandlerSuite) TestRegisterRecipient() {
	s.Run("creates recipient with treating center", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/recipients", map[string]any{
			"address":    "rec-1",
			"blood_type": "B+",
			"region":     "region-x",
			"hospital":   "hosp-1",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "status", "waiting")
		testutil.AssertJSONContains(s.T(), rr, "hospital", "hosp-1")
	})

	s.Run("treating center is optional", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/recipients", map[string]any{
			"address":    "rec-2",
			"blood_type": "O+",
			"region":     "region-x",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})
}

func (s *RegistryHandlerSuite) TestRegisterHospital() {
	s.Run("creates hospital", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/hospitals", map[string]any{
			"address":    "hosp-1",
			"name":       "Central Transplant Center",
			"region":     "region-x",
			"accredited": true,
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "accredited", true)
	})

	s.Run("requires a name", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registry/hospitals", map[string]any{
			"address": "hosp-2",
			"region":  "region-x",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}
