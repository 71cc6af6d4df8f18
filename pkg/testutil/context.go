package testutil

import (
	"net/http"
	"time"

	"lifelink/pkg/requestcontext"
)

// AsActor stamps a request with an authenticated actor, simulating what the
// auth middleware does for a validated bearer token.
func AsActor(req *http.Request, actorID string, role requestcontext.Role) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actorID, role)
	return req.WithContext(ctx)
}

// AtTime pins the request clock, matching the request-time middleware.
func AtTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
