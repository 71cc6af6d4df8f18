package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "lifelink/pkg/domain-errors"
	"lifelink/pkg/platform/httputil"
	"lifelink/pkg/requestcontext"
)

// TokenClaims is the identity a validated token asserts.
type TokenClaims struct {
	ActorID string
	Role    string
}

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*TokenClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated actor and role in the request context. Capability checks
// against the policy table happen per operation in the handlers.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected",
					"request_id", requestcontext.RequestID(r.Context()), "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx := requestcontext.WithActor(r.Context(), claims.ActorID, requestcontext.Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
