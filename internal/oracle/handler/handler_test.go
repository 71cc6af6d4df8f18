package handler_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"lifelink/internal/oracle"
	"lifelink/internal/oracle/handler"
	"lifelink/pkg/requestcontext"
	"lifelink/pkg/testutil"
)

type OracleHandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func TestOracleHandlerSuite(t *testing.T) {
	suite.Run(t, new(OracleHandlerSuite))
}

func (s *OracleHandlerSuite) SetupTest() {
	svc, err := oracle.New(oracle.NewInMemoryStore(), oracle.WithLogger(slog.Default()))
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	handler.New(svc, slog.Default()).Register(s.router)
}

func (s *OracleHandlerSuite) asCoordinator(req *http.Request) *http.Request {
	return testutil.AsActor(req, "coord-1", requestcontext.RoleCoordinator)
}

func (s *OracleHandlerSuite) asOracle(req *http.Request) *http.Request {
	return testutil.AsActor(req, "oracle-1", requestcontext.RoleOracle)
}

func (s *OracleHandlerSuite) requestVerification(donor string) string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests", map[string]any{
		"donor_address": donor,
	})
	rr := testutil.DoRequest(s.router, s.asCoordinator(req))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	resp := testutil.UnmarshalResponse[struct {
		ID string `json:"id"`
	}](s.T(), rr)
	return resp.ID
}

func (s *OracleHandlerSuite) TestRequestVerification() {
	s.Run("creates request", func() {
		id := s.requestVerification("donor-1")
		s.NotEmpty(id)
	})

	s.Run("second request while pending conflicts", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests", map[string]any{
			"donor_address": "donor-1",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "already_pending")
	})

	s.Run("oracle role may not open requests", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests", map[string]any{
			"donor_address": "donor-2",
		})
		rr := testutil.DoRequest(s.router, s.asOracle(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}

func (s *OracleHandlerSuite) TestGetStatus() {
	id := s.requestVerification("donor-1")

	s.Run("pending request is unfulfilled", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/oracle/requests/"+id)
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "fulfilled", false)
	})

	s.Run("unknown request is not found", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/oracle/requests/1b4e28ba-2fa1-11d2-883f-0016d3cca427")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("malformed id is invalid", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/oracle/requests/not-a-uuid")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *OracleHandlerSuite) TestFulfill() {
	id := s.requestVerification("donor-1")

	s.Run("coordinator may not fulfill", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests/"+id+"/fulfill", map[string]any{
			"is_deceased":  true,
			"evidence_cid": "bafy-evidence-1",
		})
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("deceased verdict requires evidence", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests/"+id+"/fulfill", map[string]any{
			"is_deceased": true,
		})
		rr := testutil.DoRequest(s.router, s.asOracle(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("oracle fulfills once", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests/"+id+"/fulfill", map[string]any{
			"is_deceased":  true,
			"evidence_cid": "bafy-evidence-1",
		})
		rr := testutil.DoRequest(s.router, s.asOracle(req))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "fulfilled", true)
	})

	s.Run("second fulfillment conflicts", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/oracle/requests/"+id+"/fulfill", map[string]any{
			"is_deceased":  false,
			"evidence_cid": "",
		})
		rr := testutil.DoRequest(s.router, s.asOracle(req))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state")
	})

	s.Run("fulfilled verdict is readable", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/oracle/requests/"+id)
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "is_deceased", true)
		testutil.AssertJSONContains(s.T(), rr, "evidence_cid", "bafy-evidence-1")
	})
}
