package api

import (
	"encoding/json"
	"time"
)

// Well-known role IDs. Role membership is the sole basis for authorization
// decisions; there are no per-resource ACLs.
const (
	RoleAdmin   int64 = 1
	RoleManager int64 = 2
	RoleEditor  int64 = 3
)

// Role names as stored in the roles table.
const (
	RoleNameAdmin   = "admin"
	RoleNameManager = "manager"
	RoleNameEditor  = "editor"
)

// Role is one of a fixed small set of roles identified by a well-known
// numeric ID convention (admin = 1, manager = 2, editor = 3).
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is an account holder. The credential pair (hash, salt) is always
// persisted together and never serialized to clients.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	PasswordSalt []byte `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	RoleID       int64  `json:"roleId"`
}

// Page statuses.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Editor records one user who modified a page.
type Editor struct {
	UserID int64 `json:"userId"`
}

// ModifiedBy is the audit trail of page edits, appended to on every update.
type ModifiedBy struct {
	Editors []Editor `json:"editors"`
}

// Page is a content page. Only published pages are visible to anonymous
// readers.
type Page struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	URL        string      `json:"url"`
	CreatorID  int64       `json:"creatorId"`
	ModifiedBy *ModifiedBy `json:"modifiedBy,omitempty"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// NavigationMenu is a named, ordered collection of page references. The
// pages value is opaque JSON supplied by the client.
type NavigationMenu struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Pages json.RawMessage `json:"pages,omitempty"`
}
