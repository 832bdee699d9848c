package http

import (
	"context"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/transport"
)

// handleListUsers handles GET /users. Admin only.
func (h *Handlers) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(listUsersSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceUsers, Action: auth.ActionRead, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	filter := storage.UserFilter{RoleName: values.String(schema.Query, "filterRole")}
	users, total, err := h.store.ListUsers(ctx, listOptionsFrom(values), filter)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "listing users", err))
		return
	}

	if users == nil {
		users = []api.User{}
	}
	transport.WriteResult(w, http.StatusOK, listResult{Results: users, Total: total})
}

// handleGetUser handles GET /users/{userID}. Admin or the user themselves.
func (h *Handlers) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "userID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(getUserSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	userID := values.Int(schema.Params, "userID")

	op := auth.Operation{Resource: auth.ResourceUsers, Action: auth.ActionRead, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{OwnerID: userID}); err != nil {
		transport.WriteError(w, err)
		return
	}

	user, err := h.store.UserByID(ctx, userID)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "fetching user", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, user)
}

// handleCreateUser handles POST /users. Admin only.
func (h *Handlers) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(createUserSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourceUsers, Action: auth.ActionCreate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	role, err := h.store.RoleByName(ctx, values.String(schema.Body, "role"))
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "resolving role", err))
		return
	}

	hash, salt, err := h.hasher.Derive(values.String(schema.Body, "password"), nil)
	if err != nil {
		transport.WriteError(w, h.serverError(ctx, "deriving credential", err))
		return
	}

	user, err := h.store.CreateUser(ctx, &api.User{
		Email:        values.String(schema.Body, "email"),
		PasswordHash: hash,
		PasswordSalt: salt,
		FirstName:    values.String(schema.Body, "firstName"),
		LastName:     values.String(schema.Body, "lastName"),
		RoleID:       role.ID,
	})
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "creating user", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, user)
}

// handleUpdateUser handles PATCH /users/{userID}. Admin or the user
// themselves; role changes are admin only so nobody can escalate their
// own account.
func (h *Handlers) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "userID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(updateUserSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	userID := values.Int(schema.Params, "userID")

	op := auth.Operation{Resource: auth.ResourceUsers, Action: auth.ActionUpdate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{OwnerID: userID}); err != nil {
		transport.WriteError(w, err)
		return
	}

	var patch storage.UserPatch

	if values.Has(schema.Body, "email") {
		email := values.String(schema.Body, "email")
		patch.Email = &email
	}
	if values.Has(schema.Body, "firstName") {
		firstName := values.String(schema.Body, "firstName")
		patch.FirstName = &firstName
	}
	if values.Has(schema.Body, "lastName") {
		lastName := values.String(schema.Body, "lastName")
		patch.LastName = &lastName
	}
	if values.Has(schema.Body, "password") {
		hash, salt, err := h.hasher.Derive(values.String(schema.Body, "password"), nil)
		if err != nil {
			transport.WriteError(w, h.serverError(ctx, "deriving credential", err))
			return
		}
		patch.PasswordHash = hash
		patch.PasswordSalt = salt
	}
	if values.Has(schema.Body, "role") {
		if err := h.requireAdmin(ctx); err != nil {
			transport.WriteError(w, err)
			return
		}
		role, err := h.store.RoleByName(ctx, values.String(schema.Body, "role"))
		if err != nil {
			transport.WriteError(w, h.storeError(ctx, "resolving role", err))
			return
		}
		patch.RoleID = &role.ID
	}

	user, err := h.store.UpdateUser(ctx, userID, patch)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "updating user", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, user)
}

// handleDeleteUser handles DELETE /users/{userID}. Admin or the user
// themselves.
func (h *Handlers) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "userID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(deleteUserSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	userID := values.Int(schema.Params, "userID")

	op := auth.Operation{Resource: auth.ResourceUsers, Action: auth.ActionDelete, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{OwnerID: userID}); err != nil {
		transport.WriteError(w, err)
		return
	}

	if err := h.store.DeleteUser(ctx, userID); err != nil {
		transport.WriteError(w, h.storeError(ctx, "deleting user", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, userID)
}

// requireAdmin rejects callers whose role is not admin, regardless of any
// self-scope rule that let them reach the handler.
func (h *Handlers) requireAdmin(ctx context.Context) error {
	id := auth.IdentityFromContext(ctx)
	if id == nil {
		return api.NewForbiddenError()
	}
	role, err := h.store.RoleOf(ctx, id.UserID)
	if err != nil {
		return api.NewForbiddenError()
	}
	if role.ID != api.RoleAdmin {
		return api.NewForbiddenError()
	}
	return nil
}
