package token

import (
	"lifelink/pkg/platform/middleware"
)

// MiddlewareAdapter exposes the token service through the shape the auth
// middleware consumes.
type MiddlewareAdapter struct {
	svc *Service
}

func NewMiddlewareAdapter(svc *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) Validate(raw string) (*middleware.TokenClaims, error) {
	claims, err := a.svc.Validate(raw)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{ActorID: claims.ActorID, Role: claims.Role}, nil
}
