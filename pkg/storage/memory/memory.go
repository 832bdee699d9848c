// Package memory provides an in-memory implementation of storage.Store for
// tests and lightweight deployments. Data is lost when the process
// restarts. The three built-in roles are seeded at construction.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu     sync.RWMutex
	roles  map[int64]*api.Role
	users  map[int64]*api.User
	pages  map[int64]*api.Page
	navs   map[int64]*api.NavigationMenu
	nextID map[string]int64
	now    func() time.Time
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty store with the admin, manager, and editor roles
// seeded under their well-known IDs.
func New() *Store {
	return &Store{
		roles: map[int64]*api.Role{
			api.RoleAdmin:   {ID: api.RoleAdmin, Name: api.RoleNameAdmin},
			api.RoleManager: {ID: api.RoleManager, Name: api.RoleNameManager},
			api.RoleEditor:  {ID: api.RoleEditor, Name: api.RoleNameEditor},
		},
		users:  make(map[int64]*api.User),
		pages:  make(map[int64]*api.Page),
		navs:   make(map[int64]*api.NavigationMenu),
		nextID: make(map[string]int64),
		now:    time.Now,
	}
}

func (s *Store) next(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// CreateUser inserts a user and assigns its ID. Duplicate emails return
// storage.ErrConflict.
func (s *Store) CreateUser(_ context.Context, u *api.User) (*api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, storage.ErrConflict
		}
	}

	stored := *u
	stored.ID = s.next("users")
	s.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// UserByID retrieves a user.
func (s *Store) UserByID(_ context.Context, id int64) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *u
	return &out, nil
}

// UserByEmail retrieves a user by email, case-insensitively.
func (s *Store) UserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListUsers returns one page of users plus the total match count.
func (s *Store) ListUsers(_ context.Context, opts storage.ListOptions, filter storage.UserFilter) ([]api.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roleID int64
	if filter.RoleName != "" {
		for _, r := range s.roles {
			if r.Name == filter.RoleName {
				roleID = r.ID
				break
			}
		}
	}

	var all []api.User
	for _, u := range s.users {
		if roleID != 0 && u.RoleID != roleID {
			continue
		}
		all = append(all, *u)
	}

	sort.Slice(all, func(i, j int) bool {
		var less bool
		switch opts.OrderField {
		case "lastName":
			less = all[i].LastName < all[j].LastName
		case "email":
			less = all[i].Email < all[j].Email
		case "firstName":
			less = all[i].FirstName < all[j].FirstName
		default:
			less = all[i].ID < all[j].ID
		}
		if opts.Order == "desc" {
			return !less
		}
		return less
	})

	return paginate(all, opts), len(all), nil
}

// UpdateUser applies a partial update. Nil patch fields leave the record
// untouched.
func (s *Store) UpdateUser(_ context.Context, id int64, patch storage.UserPatch) (*api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if patch.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Email, *patch.Email) {
				return nil, storage.ErrConflict
			}
		}
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = patch.PasswordHash
		u.PasswordSalt = patch.PasswordSalt
	}
	if patch.RoleID != nil {
		u.RoleID = *patch.RoleID
	}

	out := *u
	return &out, nil
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// RoleOf resolves the role of a user.
func (s *Store) RoleOf(ctx context.Context, userID int64) (*api.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	r, ok := s.roles[u.RoleID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *r
	return &out, nil
}

// RoleByName resolves a role by its name.
func (s *Store) RoleByName(_ context.Context, name string) (*api.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.roles {
		if r.Name == name {
			out := *r
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreatePage inserts a page. Duplicate titles or URLs return
// storage.ErrConflict.
func (s *Store) CreatePage(_ context.Context, p *api.Page) (*api.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pages {
		if existing.Title == p.Title || existing.URL == p.URL {
			return nil, storage.ErrConflict
		}
	}

	stored := *p
	stored.ID = s.next("pages")
	if stored.Status == "" {
		stored.Status = api.PageStatusDraft
	}
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.pages[stored.ID] = &stored

	out := stored
	return &out, nil
}

// PageByID retrieves a page.
func (s *Store) PageByID(_ context.Context, id int64) (*api.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *p
	return &out, nil
}

// ListPages returns one page of pages plus the total match count.
func (s *Store) ListPages(_ context.Context, opts storage.ListOptions, filter storage.PageFilter) ([]api.Page, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []api.Page
	for _, p := range s.pages {
		if filter.PublishedOnly && p.Status != api.PageStatusPublished {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		all = append(all, *p)
	}

	sort.Slice(all, func(i, j int) bool {
		var less bool
		switch opts.OrderField {
		case "url":
			less = all[i].URL < all[j].URL
		case "title":
			less = all[i].Title < all[j].Title
		default:
			less = all[i].ID < all[j].ID
		}
		if opts.Order == "desc" {
			return !less
		}
		return less
	})

	return paginate(all, opts), len(all), nil
}

// UpdatePage applies a partial update and appends to the modifiedBy trail
// when AddEditor is set.
func (s *Store) UpdatePage(_ context.Context, id int64, patch storage.PagePatch) (*api.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if patch.Title != nil {
		for otherID, other := range s.pages {
			if otherID != id && other.Title == *patch.Title {
				return nil, storage.ErrConflict
			}
		}
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.URL != nil {
		for otherID, other := range s.pages {
			if otherID != id && other.URL == *patch.URL {
				return nil, storage.ErrConflict
			}
		}
		p.URL = *patch.URL
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.AddEditor != 0 {
		if p.ModifiedBy == nil {
			p.ModifiedBy = &api.ModifiedBy{}
		}
		p.ModifiedBy.Editors = append(p.ModifiedBy.Editors, api.Editor{UserID: patch.AddEditor})
	}
	p.UpdatedAt = s.now()

	out := *p
	return &out, nil
}

// DeletePage removes a page.
func (s *Store) DeletePage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pages[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.pages, id)
	return nil
}

// CreateNavigation inserts a navigation menu.
func (s *Store) CreateNavigation(_ context.Context, n *api.NavigationMenu) (*api.NavigationMenu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *n
	stored.ID = s.next("navigation_menus")
	s.navs[stored.ID] = &stored

	out := stored
	return &out, nil
}

// NavigationByID retrieves a navigation menu.
func (s *Store) NavigationByID(_ context.Context, id int64) (*api.NavigationMenu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.navs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *n
	return &out, nil
}

// ListNavigations returns one page of navigation menus plus the total
// count.
func (s *Store) ListNavigations(_ context.Context, opts storage.ListOptions) ([]api.NavigationMenu, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []api.NavigationMenu
	for _, n := range s.navs {
		all = append(all, *n)
	}

	sort.Slice(all, func(i, j int) bool {
		less := all[i].Name < all[j].Name
		if opts.OrderField == "" {
			less = all[i].ID < all[j].ID
		}
		if opts.Order == "desc" {
			return !less
		}
		return less
	})

	return paginate(all, opts), len(all), nil
}

// UpdateNavigation applies a partial update.
func (s *Store) UpdateNavigation(_ context.Context, id int64, patch storage.NavigationPatch) (*api.NavigationMenu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.navs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if patch.Name != nil {
		n.Name = *patch.Name
	}
	if patch.Pages != nil {
		n.Pages = patch.Pages
	}

	out := *n
	return &out, nil
}

// DeleteNavigation removes a navigation menu.
func (s *Store) DeleteNavigation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.navs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.navs, id)
	return nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// paginate slices one page out of the full result set.
func paginate[T any](all []T, opts storage.ListOptions) []T {
	if opts.Limit <= 0 {
		return all
	}
	start := opts.Offset()
	if start >= len(all) {
		return nil
	}
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
