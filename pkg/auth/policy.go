package auth

import (
	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/observability"
)

// Resource names the protected resource classes.
type Resource string

const (
	ResourceUsers      Resource = "users"
	ResourcePages      Resource = "pages"
	ResourceNavigation Resource = "navigation"
)

// Action names the operations on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Operation is the requested (resource, action) pair plus the explicit
// per-operation authentication requirement. Keeping the flag here, instead
// of in conditionals scattered across handlers, makes the lazy
// authentication model auditable in one place: the route table.
type Operation struct {
	Resource     Resource
	Action       Action
	RequiresAuth bool
}

// ResourceState carries the resource-specific facts a decision can depend
// on, fetched by the handler before consulting the policy.
type ResourceState struct {
	// OwnerID is the target user's ID for self-scoped operations on the
	// users resource. Zero means ownership does not apply.
	OwnerID int64

	// PageStatus gates page reads: anonymous readers only see published
	// pages. Empty means status does not apply.
	PageStatus string
}

// Authorize returns nil when the subject may perform the operation and a
// uniform Forbidden error otherwise. role is nil for anonymous callers.
//
// The rules, in evaluation order:
//   - anonymous callers are denied anything that requires authentication,
//     and page reads of anything not published;
//   - admin may perform all actions on all resources;
//   - self-scoped user operations (a user reading or editing their own
//     record) are allowed regardless of role;
//   - manager may create, update, and delete pages and navigation menus;
//   - everyone else (editor and below) has read-only access, with page
//     reads unrestricted once authenticated.
func Authorize(id *Identity, role *api.Role, op Operation, state ResourceState) error {
	if allowed(id, role, op, state) {
		return nil
	}
	observability.AuthorizationDenialsTotal.WithLabelValues(string(op.Resource), string(op.Action)).Inc()
	return api.NewForbiddenError()
}

func allowed(id *Identity, role *api.Role, op Operation, state ResourceState) bool {
	if id == nil {
		if op.RequiresAuth {
			return false
		}
		return anonymousAllowed(op, state)
	}

	if role != nil && role.ID == api.RoleAdmin {
		return true
	}

	// Self-scoped operations on the caller's own user record.
	if op.Resource == ResourceUsers && state.OwnerID != 0 && state.OwnerID == id.UserID {
		switch op.Action {
		case ActionRead, ActionUpdate, ActionDelete:
			return true
		}
	}

	if role != nil && role.ID == api.RoleManager {
		switch op.Resource {
		case ResourcePages, ResourceNavigation:
			return true
		}
	}

	// Editor and below: read-only.
	if op.Action != ActionRead {
		return false
	}
	switch op.Resource {
	case ResourcePages, ResourceNavigation:
		return true
	}
	return false
}

// anonymousAllowed covers the explicitly public reads.
func anonymousAllowed(op Operation, state ResourceState) bool {
	if op.Action != ActionRead {
		return false
	}
	switch op.Resource {
	case ResourceNavigation:
		return true
	case ResourcePages:
		// Unauthenticated readers only see published pages.
		return state.PageStatus == "" || state.PageStatus == api.PageStatusPublished
	}
	return false
}
