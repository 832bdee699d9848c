package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rgrenier/folio/pkg/api"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on uniqueness violations (duplicate email,
	// page title, or page URL).
	ErrConflict = errors.New("record already exists")
)

// ListOptions controls pagination and ordering for list operations. The
// order field is validated upstream against a per-endpoint allow list
// before it reaches a store.
type ListOptions struct {
	Page       int    // 1-based page number
	Limit      int    // page size
	OrderField string // column to order by
	Order      string // "asc" or "desc"
}

// Offset returns the row offset for the options.
func (o ListOptions) Offset() int {
	page := o.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * o.Limit
}

// UserFilter narrows user listings.
type UserFilter struct {
	RoleName string // filter by role name; empty means all roles
}

// PageFilter narrows page listings.
type PageFilter struct {
	Status        string // filter by exact status; empty means all
	PublishedOnly bool   // restrict to published pages (anonymous readers)
}

// UserPatch is a partial user update. Nil pointer fields are "not
// supplied" and leave the column untouched; hash and salt are set together
// or not at all.
type UserPatch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash []byte
	PasswordSalt []byte
	RoleID       *int64
}

// PagePatch is a partial page update. AddEditor appends the given user to
// the page's modifiedBy trail.
type PagePatch struct {
	Title     *string
	Content   *string
	URL       *string
	Status    *string
	AddEditor int64
}

// NavigationPatch is a partial navigation menu update.
type NavigationPatch struct {
	Name  *string
	Pages json.RawMessage
}

// UserStore persists users and resolves roles.
type UserStore interface {
	CreateUser(ctx context.Context, u *api.User) (*api.User, error)
	UserByID(ctx context.Context, id int64) (*api.User, error)
	UserByEmail(ctx context.Context, email string) (*api.User, error)
	ListUsers(ctx context.Context, opts ListOptions, filter UserFilter) ([]api.User, int, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*api.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// RoleOf resolves the role of a user; the policy evaluator depends on it.
	RoleOf(ctx context.Context, userID int64) (*api.Role, error)
	RoleByName(ctx context.Context, name string) (*api.Role, error)
}

// PageStore persists content pages.
type PageStore interface {
	CreatePage(ctx context.Context, p *api.Page) (*api.Page, error)
	PageByID(ctx context.Context, id int64) (*api.Page, error)
	ListPages(ctx context.Context, opts ListOptions, filter PageFilter) ([]api.Page, int, error)
	UpdatePage(ctx context.Context, id int64, patch PagePatch) (*api.Page, error)
	DeletePage(ctx context.Context, id int64) error
}

// NavigationStore persists navigation menus.
type NavigationStore interface {
	CreateNavigation(ctx context.Context, n *api.NavigationMenu) (*api.NavigationMenu, error)
	NavigationByID(ctx context.Context, id int64) (*api.NavigationMenu, error)
	ListNavigations(ctx context.Context, opts ListOptions) ([]api.NavigationMenu, int, error)
	UpdateNavigation(ctx context.Context, id int64, patch NavigationPatch) (*api.NavigationMenu, error)
	DeleteNavigation(ctx context.Context, id int64) error
}

// Store is the full persistence surface of the backend.
type Store interface {
	UserStore
	PageStore
	NavigationStore

	// HealthCheck verifies the store is functional.
	HealthCheck(ctx context.Context) error

	// Close releases connections and resources.
	Close() error
}
