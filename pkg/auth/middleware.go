package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rgrenier/folio/pkg/debug"
	"github.com/rgrenier/folio/pkg/observability"
	"github.com/rgrenier/folio/pkg/token"
)

// Middleware creates HTTP middleware that resolves a caller identity from
// the Authorization header.
//
// Resolution never rejects the request: many endpoints serve public reads,
// so a missing token and an invalid token both continue as anonymous and
// enforcement happens per handler through the policy evaluator. A valid
// token attaches the verified identity to the request context for the rest
// of the request's processing. The middleware has no other side effect and
// is idempotent across retries of the same token.
func Middleware(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				outcome := "invalid"
				if errors.Is(err, token.ErrExpired) {
					outcome = "expired"
				}
				observability.TokenVerificationsTotal.WithLabelValues(outcome).Inc()

				slog.Debug("bearer token rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			observability.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			debug.Log("auth", "bearer token accepted", "user_id", userID, "path", r.URL.Path)

			ctx := WithIdentity(r.Context(), &Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
