//go:build integration

package oracle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifelink/internal/oracle"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
	"lifelink/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *oracle.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = oracle.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushAll(context.Background()).Err())
}

func newTestRequest(donor string) *oracle.DeathVerificationRequest {
	return &oracle.DeathVerificationRequest{
		ID:          domain.NewRequestID(),
		Donor:       domain.DonorID(donor),
		RequestedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (s *RedisStoreSuite) TestCreateAndGet() {
	ctx := context.Background()
	req := newTestRequest("donor-1")
	s.Require().NoError(s.store.Create(ctx, req))

	got, err := s.store.Get(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(req.Donor, got.Donor)
	s.False(got.Fulfilled)
	s.True(req.RequestedAt.Equal(got.RequestedAt))
}

func (s *RedisStoreSuite) TestCreateConflict() {
	ctx := context.Background()
	req := newTestRequest("donor-1")
	s.Require().NoError(s.store.Create(ctx, req))
	s.Require().ErrorIs(s.store.Create(ctx, req), sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestLatestForDonorTracksNewestRequest() {
	ctx := context.Background()
	first := newTestRequest("donor-1")
	s.Require().NoError(s.store.Create(ctx, first))

	second := newTestRequest("donor-1")
	s.Require().NoError(s.store.Create(ctx, second))

	latest, err := s.store.LatestForDonor(ctx, "donor-1")
	s.Require().NoError(err)
	s.Equal(second.ID, latest.ID)

	_, err = s.store.LatestForDonor(ctx, "donor-unknown")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestUpdateFulfillment() {
	ctx := context.Background()
	req := newTestRequest("donor-1")
	s.Require().NoError(s.store.Create(ctx, req))

	req.Fulfilled = true
	req.IsDeceased = true
	req.EvidenceCID = "bafy-evidence"
	req.OracleID = "oracle-1"
	req.FulfilledAt = time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.store.Update(ctx, req))

	got, err := s.store.Get(ctx, req.ID)
	s.Require().NoError(err)
	s.True(got.Fulfilled)
	s.True(got.IsDeceased)
	s.Equal("bafy-evidence", got.EvidenceCID)

	missing := newTestRequest("donor-2")
	s.Require().ErrorIs(s.store.Update(ctx, missing), sentinel.ErrNotFound)
}
