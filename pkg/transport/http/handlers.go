package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/credential"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/token"
	"github.com/rgrenier/folio/pkg/transport"
)

// Handlers carries the dependencies shared by all endpoint handlers.
type Handlers struct {
	store   storage.Store
	tokens  *token.Service
	hasher  *credential.Hasher
	signins *auth.SignInLimiter
	logger  *slog.Logger
}

// NewHandlers creates the endpoint handler set.
func NewHandlers(store storage.Store, tokens *token.Service, hasher *credential.Hasher, signins *auth.SignInLimiter, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:   store,
		tokens:  tokens,
		hasher:  hasher,
		signins: signins,
		logger:  logger,
	}
}

// Routes returns the router with every API endpoint registered.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sign-in", h.handleSignIn)

	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("GET /users/{userID}", h.handleGetUser)
	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("PATCH /users/{userID}", h.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{userID}", h.handleDeleteUser)

	mux.HandleFunc("GET /pages", h.handleListPages)
	mux.HandleFunc("GET /pages/{pageID}", h.handleGetPage)
	mux.HandleFunc("POST /pages", h.handleCreatePage)
	mux.HandleFunc("PATCH /pages/{pageID}", h.handleUpdatePage)
	mux.HandleFunc("DELETE /pages/{pageID}", h.handleDeletePage)

	mux.HandleFunc("GET /navs", h.handleListNavs)
	mux.HandleFunc("GET /navs/{navID}", h.handleGetNav)
	mux.HandleFunc("POST /navs", h.handleCreateNav)
	mux.HandleFunc("PATCH /navs/{navID}", h.handleUpdateNav)
	mux.HandleFunc("DELETE /navs/{navID}", h.handleDeleteNav)

	mux.HandleFunc("GET /healthz", h.handleHealthz)

	return mux
}

// authorize resolves the caller's role and consults the policy. The
// identity comes from the authentication middleware; anonymous callers
// have a nil identity and nil role.
func (h *Handlers) authorize(ctx context.Context, op auth.Operation, state auth.ResourceState) error {
	id := auth.IdentityFromContext(ctx)

	var role *api.Role
	if id != nil {
		r, err := h.store.RoleOf(ctx, id.UserID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return h.serverError(ctx, "resolving role", err)
		}
		role = r
	}

	return auth.Authorize(id, role, op, state)
}

// listOptionsFrom extracts the shared pagination/ordering controls from a
// validated query value bag.
func listOptionsFrom(values schema.Values) storage.ListOptions {
	return storage.ListOptions{
		Page:       int(values.Int(schema.Query, "page")),
		Limit:      int(values.Int(schema.Query, "limit")),
		OrderField: values.String(schema.Query, "orderField"),
		Order:      values.String(schema.Query, "order"),
	}
}

// serverError logs an internal failure with its request ID and returns the
// generic server error. Internal details never reach clients.
func (h *Handlers) serverError(ctx context.Context, msg string, err error) error {
	h.logger.LogAttrs(ctx, slog.LevelError, msg,
		slog.String("error", err.Error()),
		slog.String("request_id", transport.RequestIDFromContext(ctx)),
	)
	return api.NewServerError()
}

// storeError maps storage sentinel errors to API errors; anything else is
// an internal failure.
func (h *Handlers) storeError(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return api.NewNotFoundError()
	case errors.Is(err, storage.ErrConflict):
		return api.NewConflictError("Already exists")
	default:
		return h.serverError(ctx, msg, err)
	}
}

// handleHealthz reports liveness and storage connectivity.
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		transport.WriteError(w, api.NewServerError())
		return
	}
	transport.WriteResult(w, http.StatusOK, "ok")
}

// listResult is the wire shape of every list endpoint: one page of items
// plus the total match count.
type listResult struct {
	Results any `json:"results"`
	Total   int `json:"total"`
}
