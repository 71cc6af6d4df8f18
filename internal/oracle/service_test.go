package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifelink/internal/audit"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/requestcontext"
)

type OracleServiceSuite struct {
	suite.Suite

	ctx     context.Context
	now     time.Time
	service *Service
}

func TestOracleServiceSuite(t *testing.T) {
	suite.Run(t, new(OracleServiceSuite))
}

func (s *OracleServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	var err error
	s.service, err = New(NewInMemoryStore(), WithAudit(audit.NewPublisher(audit.NewInMemoryStore())))
	s.Require().NoError(err)
}

func (s *OracleServiceSuite) TestRequestVerification() {
	s.Run("requires a donor", func() {
		_, err := s.service.RequestVerification(s.ctx, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("files a request", func() {
		req, err := s.service.RequestVerification(s.ctx, "donor-1")
		s.Require().NoError(err)
		s.False(req.ID.IsNil())
		s.Equal(domain.DonorID("donor-1"), req.Donor)
		s.False(req.Fulfilled)
		s.Equal(s.now, req.RequestedAt)
	})

	s.Run("second request before resolution is already pending", func() {
		_, err := s.service.RequestVerification(s.ctx, "donor-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPending))
	})

	s.Run("other donors are unaffected", func() {
		_, err := s.service.RequestVerification(s.ctx, "donor-2")
		s.NoError(err)
	})
}

func (s *OracleServiceSuite) TestRequestAfterFulfillment() {
	req, err := s.service.RequestVerification(s.ctx, "donor-1")
	s.Require().NoError(err)
	_, err = s.service.Fulfill(s.ctx, req.ID, false, "", "oracle-1")
	s.Require().NoError(err)

	// The earlier verdict was alive; a fresh request is allowed.
	again, err := s.service.RequestVerification(s.ctx, "donor-1")
	s.Require().NoError(err)
	s.NotEqual(req.ID, again.ID)
}

func (s *OracleServiceSuite) TestGetStatus() {
	s.Run("unknown request", func() {
		_, err := s.service.GetStatus(s.ctx, domain.NewRequestID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unfulfilled is a waiting state", func() {
		req, err := s.service.RequestVerification(s.ctx, "donor-1")
		s.Require().NoError(err)

		status, err := s.service.GetStatus(s.ctx, req.ID)
		s.Require().NoError(err)
		s.False(status.Fulfilled)
		s.False(status.IsDeceased)
		s.Empty(status.EvidenceCID)
	})

	s.Run("fulfilled carries the verdict", func() {
		req, err := s.service.RequestVerification(s.ctx, "donor-2")
		s.Require().NoError(err)
		_, err = s.service.Fulfill(s.ctx, req.ID, true, "bafy-evidence", "oracle-1")
		s.Require().NoError(err)

		status, err := s.service.GetStatus(s.ctx, req.ID)
		s.Require().NoError(err)
		s.True(status.Fulfilled)
		s.True(status.IsDeceased)
		s.Equal("bafy-evidence", status.EvidenceCID)
	})
}

func (s *OracleServiceSuite) TestFulfill() {
	req, err := s.service.RequestVerification(s.ctx, "donor-1")
	s.Require().NoError(err)

	s.Run("requires an oracle identity", func() {
		_, err := s.service.Fulfill(s.ctx, req.ID, true, "bafy-evidence", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("deceased verdict requires evidence", func() {
		_, err := s.service.Fulfill(s.ctx, req.ID, true, "", "oracle-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("records the verdict once", func() {
		fulfilled, err := s.service.Fulfill(s.ctx, req.ID, true, "bafy-evidence", "oracle-1")
		s.Require().NoError(err)
		s.True(fulfilled.Fulfilled)
		s.Equal("oracle-1", fulfilled.OracleID)
		s.Equal(s.now, fulfilled.FulfilledAt)

		_, err = s.service.Fulfill(s.ctx, req.ID, false, "", "oracle-2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *OracleServiceSuite) TestSubscribe() {
	notifications := s.service.Subscribe()

	req, err := s.service.RequestVerification(s.ctx, "donor-1")
	s.Require().NoError(err)
	_, err = s.service.Fulfill(s.ctx, req.ID, true, "bafy-evidence", "oracle-1")
	s.Require().NoError(err)

	select {
	case n := <-notifications:
		s.Equal(req.ID, n.RequestID)
		s.Equal(domain.DonorID("donor-1"), n.Donor)
		s.True(n.IsDeceased)
		s.Equal("bafy-evidence", n.EvidenceCID)
	case <-time.After(time.Second):
		s.Fail("expected a fulfillment notification")
	}
}
