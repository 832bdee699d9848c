package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/debug"
	"github.com/rgrenier/folio/pkg/observability"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/transport"
)

// handleSignIn handles POST /sign-in. Unknown email and wrong password
// produce the identical 401 response; a hash derivation runs in both
// branches so the two failures take comparable time.
func (h *Handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.signins != nil && !h.signins.Allow(clientAddr(r)) {
		observability.SignInsTotal.WithLabelValues("rate_limited").Inc()
		debug.Log("signin", "attempt rate limited", "remote_addr", r.RemoteAddr)
		transport.WriteError(w, api.NewTooManyRequestsError())
		return
	}

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(signInSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	email := values.String(schema.Body, "email")
	password := values.String(schema.Body, "password")

	user, err := h.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Burn a derivation so unknown emails cost as much as mismatches.
			h.hasher.Derive(password, nil)
			h.rejectSignIn(w, r, email)
			return
		}
		transport.WriteError(w, h.serverError(ctx, "looking up user", err))
		return
	}

	if !h.hasher.Verify(password, user.PasswordHash, user.PasswordSalt) {
		h.rejectSignIn(w, r, email)
		return
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		transport.WriteError(w, h.serverError(ctx, "issuing token", err))
		return
	}

	observability.SignInsTotal.WithLabelValues("success").Inc()
	h.logger.LogAttrs(ctx, slog.LevelInfo, "sign-in succeeded",
		slog.Int64("user_id", user.ID),
		slog.String("request_id", transport.RequestIDFromContext(ctx)),
	)
	transport.WriteResult(w, http.StatusOK, tok)
}

func (h *Handlers) rejectSignIn(w http.ResponseWriter, r *http.Request, email string) {
	observability.SignInsTotal.WithLabelValues("failure").Inc()
	h.logger.LogAttrs(r.Context(), slog.LevelInfo, "sign-in rejected", slog.String("email", email))
	transport.WriteError(w, api.NewInvalidCredentialsError())
}
