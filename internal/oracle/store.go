package oracle

import (
	"context"

	"lifelink/pkg/domain"
)

// Store persists verification requests and tracks the latest request per
// donor so the gateway can detect an in-flight request cheaply.
// Implementations return sentinel.ErrNotFound for absent records.
type Store interface {
	Create(ctx context.Context, req *DeathVerificationRequest) error
	Get(ctx context.Context, id domain.RequestID) (*DeathVerificationRequest, error)
	Update(ctx context.Context, req *DeathVerificationRequest) error
	LatestForDonor(ctx context.Context, donor domain.DonorID) (*DeathVerificationRequest, error)
}
