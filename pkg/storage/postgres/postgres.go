// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and JSONB for the page edit trail
// and navigation menu contents.
package postgres

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/debug"
	"github.com/rgrenier/folio/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	debug.Log("storage", "connection pool ready",
		"max_conns", cfg.MaxConns, "min_conns", cfg.MinConns)

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// userOrderColumns maps client-facing order fields to users columns.
var userOrderColumns = map[string]string{
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
}

// pageOrderColumns maps client-facing order fields to pages columns.
var pageOrderColumns = map[string]string{
	"title": "title",
	"url":   "url",
}

// orderClause builds an ORDER BY clause from an allow-listed column map.
// Unknown fields fall back to the primary key so a store never interpolates
// arbitrary input into SQL.
func orderClause(columns map[string]string, field, order string) string {
	col, ok := columns[field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// limitClause appends LIMIT/OFFSET for the options and returns the
// extended argument list.
func limitClause(opts storage.ListOptions, args []any) (string, []any) {
	if opts.Limit <= 0 {
		return "", args
	}
	clause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return clause, append(args, opts.Limit, opts.Offset())
}

// CreateUser inserts a user. Duplicate emails return storage.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *api.User) (*api.User, error) {
	out := *u
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, password_salt, first_name, last_name, role_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		u.Email, hex.EncodeToString(u.PasswordHash), hex.EncodeToString(u.PasswordSalt),
		u.FirstName, u.LastName, u.RoleID,
	).Scan(&out.ID)

	if err != nil {
		if isDuplicateKey(err) {
			return nil, storage.ErrConflict
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return &out, nil
}

const userColumns = "id, email, password_hash, password_salt, first_name, last_name, role_id"

// scanUser reads one user row, decoding the hex-encoded credential pair.
func scanUser(row pgx.Row) (*api.User, error) {
	var u api.User
	var hashHex, saltHex string

	err := row.Scan(&u.ID, &u.Email, &hashHex, &saltHex, &u.FirstName, &u.LastName, &u.RoleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if u.PasswordHash, err = hex.DecodeString(hashHex); err != nil {
		return nil, fmt.Errorf("decoding password hash: %w", err)
	}
	if u.PasswordSalt, err = hex.DecodeString(saltHex); err != nil {
		return nil, fmt.Errorf("decoding password salt: %w", err)
	}

	return &u, nil
}

// UserByID retrieves a user.
func (s *Store) UserByID(ctx context.Context, id int64) (*api.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// UserByEmail retrieves a user by email, case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (*api.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
	return scanUser(row)
}

// ListUsers returns one page of users plus the total match count.
func (s *Store) ListUsers(ctx context.Context, opts storage.ListOptions, filter storage.UserFilter) ([]api.User, int, error) {
	where := ""
	var args []any
	if filter.RoleName != "" {
		where = " WHERE role_id = (SELECT id FROM roles WHERE name = $1)"
		args = append(args, filter.RoleName)
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := "SELECT " + userColumns + " FROM users" + where +
		orderClause(userOrderColumns, opts.OrderField, opts.Order)
	limit, args := limitClause(opts, args)
	query += limit

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []api.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating users: %w", err)
	}

	return users, total, nil
}

// UpdateUser applies a partial update and returns the updated record.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch storage.UserPatch) (*api.User, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.PasswordHash != nil {
		add("password_hash", hex.EncodeToString(patch.PasswordHash))
		add("password_salt", hex.EncodeToString(patch.PasswordSalt))
	}
	if patch.RoleID != nil {
		add("role_id", *patch.RoleID)
	}

	if len(sets) == 0 {
		return s.UserByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil && isDuplicateKey(err) {
		return nil, storage.ErrConflict
	}
	return u, err
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RoleOf resolves the role of a user.
func (s *Store) RoleOf(ctx context.Context, userID int64) (*api.Role, error) {
	var r api.Role
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.name FROM roles r
		JOIN users u ON u.role_id = r.id
		WHERE u.id = $1
	`, userID).Scan(&r.ID, &r.Name)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying role: %w", err)
	}
	return &r, nil
}

// RoleByName resolves a role by its name.
func (s *Store) RoleByName(ctx context.Context, name string) (*api.Role, error) {
	var r api.Role
	err := s.pool.QueryRow(ctx,
		"SELECT id, name FROM roles WHERE name = $1", name).Scan(&r.ID, &r.Name)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying role: %w", err)
	}
	return &r, nil
}

// CreatePage inserts a page. Duplicate titles or URLs return
// storage.ErrConflict.
func (s *Store) CreatePage(ctx context.Context, p *api.Page) (*api.Page, error) {
	out := *p
	if out.Status == "" {
		out.Status = api.PageStatusDraft
	}

	modifiedJSON, err := marshalModifiedBy(out.ModifiedBy)
	if err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO pages (title, content, url, creator_id, modified_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		out.Title, out.Content, out.URL, out.CreatorID, nullJSON(modifiedJSON), out.Status,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return nil, storage.ErrConflict
		}
		return nil, fmt.Errorf("inserting page: %w", err)
	}

	return &out, nil
}

const pageColumns = "id, title, content, url, creator_id, modified_by, status, created_at, updated_at"

// scanPage reads one page row.
func scanPage(row pgx.Row) (*api.Page, error) {
	var p api.Page
	var modifiedJSON []byte

	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.URL, &p.CreatorID,
		&modifiedJSON, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning page: %w", err)
	}

	if len(modifiedJSON) > 0 {
		var mb api.ModifiedBy
		if err := json.Unmarshal(modifiedJSON, &mb); err != nil {
			return nil, fmt.Errorf("unmarshaling modified_by: %w", err)
		}
		p.ModifiedBy = &mb
	}

	return &p, nil
}

// PageByID retrieves a page.
func (s *Store) PageByID(ctx context.Context, id int64) (*api.Page, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE id = $1", id)
	return scanPage(row)
}

// ListPages returns one page of pages plus the total match count.
func (s *Store) ListPages(ctx context.Context, opts storage.ListOptions, filter storage.PageFilter) ([]api.Page, int, error) {
	var conditions []string
	var args []any

	if filter.PublishedOnly {
		args = append(args, api.PageStatusPublished)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	} else if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM pages"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting pages: %w", err)
	}

	query := "SELECT " + pageColumns + " FROM pages" + where +
		orderClause(pageOrderColumns, opts.OrderField, opts.Order)
	limit, args := limitClause(opts, args)
	query += limit

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []api.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, 0, err
		}
		pages = append(pages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating pages: %w", err)
	}

	return pages, total, nil
}

// UpdatePage applies a partial update. When AddEditor is set the user is
// appended to the page's modified_by trail inside the same statement.
func (s *Store) UpdatePage(ctx context.Context, id int64, patch storage.PagePatch) (*api.Page, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.URL != nil {
		add("url", *patch.URL)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AddEditor != 0 {
		entry, err := json.Marshal(api.Editor{UserID: patch.AddEditor})
		if err != nil {
			return nil, fmt.Errorf("marshaling editor: %w", err)
		}
		args = append(args, entry)
		sets = append(sets, fmt.Sprintf(
			"modified_by = jsonb_set(COALESCE(modified_by, '{\"editors\":[]}'::jsonb), '{editors}', COALESCE(modified_by->'editors', '[]'::jsonb) || $%d::jsonb)",
			len(args)))
	}

	if len(sets) == 0 {
		return s.PageByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE pages SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), pageColumns)

	p, err := scanPage(s.pool.QueryRow(ctx, query, args...))
	if err != nil && isDuplicateKey(err) {
		return nil, storage.ErrConflict
	}
	return p, err
}

// DeletePage removes a page.
func (s *Store) DeletePage(ctx context.Context, id int64) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM pages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateNavigation inserts a navigation menu.
func (s *Store) CreateNavigation(ctx context.Context, n *api.NavigationMenu) (*api.NavigationMenu, error) {
	out := *n
	err := s.pool.QueryRow(ctx, `
		INSERT INTO navigation_menus (name, pages)
		VALUES ($1, $2)
		RETURNING id
	`, out.Name, nullJSON(out.Pages)).Scan(&out.ID)

	if err != nil {
		return nil, fmt.Errorf("inserting navigation menu: %w", err)
	}
	return &out, nil
}

// NavigationByID retrieves a navigation menu.
func (s *Store) NavigationByID(ctx context.Context, id int64) (*api.NavigationMenu, error) {
	var n api.NavigationMenu
	var pagesJSON []byte

	err := s.pool.QueryRow(ctx,
		"SELECT id, name, pages FROM navigation_menus WHERE id = $1", id,
	).Scan(&n.ID, &n.Name, &pagesJSON)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying navigation menu: %w", err)
	}

	n.Pages = pagesJSON
	return &n, nil
}

// ListNavigations returns one page of navigation menus plus the total count.
func (s *Store) ListNavigations(ctx context.Context, opts storage.ListOptions) ([]api.NavigationMenu, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM navigation_menus").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting navigation menus: %w", err)
	}

	query := "SELECT id, name, pages FROM navigation_menus" +
		orderClause(map[string]string{"name": "name"}, opts.OrderField, opts.Order)
	limit, args := limitClause(opts, nil)
	query += limit

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying navigation menus: %w", err)
	}
	defer rows.Close()

	var navs []api.NavigationMenu
	for rows.Next() {
		var n api.NavigationMenu
		var pagesJSON []byte
		if err := rows.Scan(&n.ID, &n.Name, &pagesJSON); err != nil {
			return nil, 0, fmt.Errorf("scanning navigation menu: %w", err)
		}
		n.Pages = pagesJSON
		navs = append(navs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating navigation menus: %w", err)
	}

	return navs, total, nil
}

// UpdateNavigation applies a partial update.
func (s *Store) UpdateNavigation(ctx context.Context, id int64, patch storage.NavigationPatch) (*api.NavigationMenu, error) {
	var sets []string
	var args []any

	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Pages != nil {
		args = append(args, []byte(patch.Pages))
		sets = append(sets, fmt.Sprintf("pages = $%d", len(args)))
	}

	if len(sets) == 0 {
		return s.NavigationByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE navigation_menus SET %s WHERE id = $%d RETURNING id, name, pages",
		strings.Join(sets, ", "), len(args))

	var n api.NavigationMenu
	var pagesJSON []byte
	err := s.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.Name, &pagesJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating navigation menu: %w", err)
	}
	n.Pages = pagesJSON
	return &n, nil
}

// DeleteNavigation removes a navigation menu.
func (s *Store) DeleteNavigation(ctx context.Context, id int64) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM navigation_menus WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting navigation menu: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// marshalModifiedBy serializes the edit trail, returning nil for an empty one.
func marshalModifiedBy(mb *api.ModifiedBy) ([]byte, error) {
	if mb == nil {
		return nil, nil
	}
	b, err := json.Marshal(mb)
	if err != nil {
		return nil, fmt.Errorf("marshaling modified_by: %w", err)
	}
	return b, nil
}

// nullJSON converts nil/empty byte slices to nil for nullable JSONB columns.
func nullJSON(b []byte) *[]byte {
	if len(b) == 0 {
		return nil
	}
	return &b
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
