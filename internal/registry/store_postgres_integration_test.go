//go:build integration

package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifelink/internal/registry"
	"lifelink/pkg/domain"
	"lifelink/pkg/platform/sentinel"
	"lifelink/pkg/testutil/containers"
)

type RegistryPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *registry.PostgresStore
}

func TestRegistryPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RegistryPostgresSuite))
}

func (s *RegistryPostgresSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(s.postgres.ApplySchema(context.Background(), registry.Schema))
	s.store = registry.NewPostgres(s.postgres.DB)
}

func (s *RegistryPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "donors", "recipients", "hospitals"))
}

func (s *RegistryPostgresSuite) TestDonorRoundTrip() {
	ctx := context.Background()
	d := &registry.Donor{
		Address:      "donor-1",
		BloodType:    domain.BloodONeg,
		Status:       registry.DonorRegistered,
		Region:       "north",
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.PutDonor(ctx, d))

	got, err := s.store.GetDonor(ctx, "donor-1")
	s.Require().NoError(err)
	s.Equal(d.BloodType, got.BloodType)
	s.Equal(d.Status, got.Status)
	s.Equal(d.RegisteredAt, got.RegisteredAt)
}

func (s *RegistryPostgresSuite) TestPutDonorIsLastWriteWins() {
	ctx := context.Background()
	d := &registry.Donor{
		Address:      "donor-1",
		BloodType:    domain.BloodONeg,
		Status:       registry.DonorRegistered,
		Region:       "north",
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.PutDonor(ctx, d))

	d.Status = registry.DonorDeathVerified
	s.Require().NoError(s.store.PutDonor(ctx, d))

	got, err := s.store.GetDonor(ctx, "donor-1")
	s.Require().NoError(err)
	s.Equal(registry.DonorDeathVerified, got.Status)
}

func (s *RegistryPostgresSuite) TestRecipientRoundTripWithHospital() {
	ctx := context.Background()
	r := &registry.Recipient{
		Address:      "rec-1",
		BloodType:    domain.BloodAPos,
		Status:       registry.RecipientWaiting,
		Region:       "south",
		Hospital:     "hosp-1",
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.PutRecipient(ctx, r))

	got, err := s.store.GetRecipient(ctx, "rec-1")
	s.Require().NoError(err)
	s.Equal(domain.HospitalID("hosp-1"), got.Hospital)
	s.Equal(registry.RecipientWaiting, got.Status)
}

func (s *RegistryPostgresSuite) TestHospitalRoundTrip() {
	ctx := context.Background()
	h := &registry.Hospital{
		Address:    "hosp-1",
		Name:       "Central Transplant Center",
		Region:     "south",
		Accredited: true,
	}
	s.Require().NoError(s.store.PutHospital(ctx, h))

	got, err := s.store.GetHospital(ctx, "hosp-1")
	s.Require().NoError(err)
	s.Equal(h.Name, got.Name)
	s.True(got.Accredited)
}

func (s *RegistryPostgresSuite) TestMissingRecordsAreNotFound() {
	ctx := context.Background()

	_, err := s.store.GetDonor(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.GetRecipient(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.GetHospital(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
