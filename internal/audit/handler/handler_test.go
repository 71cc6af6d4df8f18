package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"lifelink/internal/audit"
	"lifelink/internal/audit/handler"
	"lifelink/pkg/requestcontext"
	"lifelink/pkg/testutil"
)

type AuditHandlerSuite struct {
	suite.Suite
	router    *chi.Mux
	publisher *audit.Publisher
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) SetupTest() {
	s.publisher = audit.NewPublisher(audit.NewInMemoryStore())
	s.router = chi.NewRouter()
	handler.New(s.publisher, slog.Default()).Register(s.router)
}

func (s *AuditHandlerSuite) asCoordinator(req *http.Request) *http.Request {
	return testutil.AsActor(req, "coord-1", requestcontext.RoleCoordinator)
}

func (s *AuditHandlerSuite) TestListByOrgan() {
	const organID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	ctx := context.Background()
	s.Require().NoError(s.publisher.Emit(ctx, audit.Event{
		Action:    audit.ActionOrganRegistered,
		OrganID:   organID,
		Donor:     "donor-1",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}))
	s.Require().NoError(s.publisher.Emit(ctx, audit.Event{
		Action:    audit.ActionOrganAllocated,
		OrganID:   organID,
		Recipient: "rec-1",
		Timestamp: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}))

	s.Run("returns the organ trail in order", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/audit/organs/"+organID)
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[struct {
			Events []struct {
				Action string `json:"action"`
			} `json:"events"`
		}](s.T(), rr)
		s.Require().Len(resp.Events, 2)
		s.Equal(audit.ActionOrganRegistered, resp.Events[0].Action)
		s.Equal(audit.ActionOrganAllocated, resp.Events[1].Action)
	})

	s.Run("unknown organ has an empty trail", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/audit/organs/1b4e28ba-2fa1-11d2-883f-0016d3cca427")
		rr := testutil.DoRequest(s.router, s.asCoordinator(req))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[struct {
			Events []any `json:"events"`
		}](s.T(), rr)
		s.Empty(resp.Events)
	})

	s.Run("hospitals may not read the trail", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/audit/organs/"+organID)
		rr := testutil.DoRequest(s.router, testutil.AsActor(req, "hosp-1", requestcontext.RoleHospital))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}

func (s *AuditHandlerSuite) TestListByDonor() {
	s.Require().NoError(s.publisher.Emit(context.Background(), audit.Event{
		Action: audit.ActionDonorReleased,
		Donor:  "donor-1",
	}))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/audit/donors/donor-1")
	rr := testutil.DoRequest(s.router, s.asCoordinator(req))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[struct {
		Events []struct {
			Donor string `json:"donor"`
		} `json:"events"`
	}](s.T(), rr)
	s.Require().Len(resp.Events, 1)
	s.Equal("donor-1", resp.Events[0].Donor)
}
