package http

import (
	"regexp"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/schema"
)

// namePattern accepts letters (any script), spaces, and hyphens.
var namePattern = regexp.MustCompile(`^[\p{L} -]+$`)

func int64p(n int64) *int64 { return &n }

// idParam is the shared path parameter descriptor for numeric resource IDs.
func idParam(name string) schema.Field {
	return schema.Field{
		Name:        name,
		Kind:        schema.Int,
		Required:    true,
		Min:         int64p(1),
		TypeMessage: "Invalid ID",
	}
}

// listQuery is the shared pagination/ordering query schema. orderFields
// lists the allowed order columns; the first one is the default.
func listQuery(orderFields ...string) []schema.Field {
	return []schema.Field{
		{Name: "limit", Kind: schema.Int, Min: int64p(1), Max: int64p(100), Default: int64(5)},
		{Name: "page", Kind: schema.Int, Min: int64p(1), Default: int64(1)},
		{Name: "orderField", Kind: schema.OneOf, Values: orderFields, Default: orderFields[0]},
		{Name: "order", Kind: schema.OneOf, Values: []string{"asc", "desc"}, Default: "desc"},
	}
}

var signInSchema = schema.Set{
	Body: []schema.Field{
		{Name: "email", Kind: schema.Email, Required: true, Lowercase: true},
		{Name: "password", Kind: schema.String, Required: true},
	},
}

var listUsersSchema = schema.Set{
	Query: append(listQuery("firstName", "lastName", "email"),
		schema.Field{Name: "filterRole", Kind: schema.OneOf,
			Values: []string{api.RoleNameAdmin, api.RoleNameManager, api.RoleNameEditor}},
	),
}

var getUserSchema = schema.Set{
	Params: []schema.Field{idParam("userID")},
}

var createUserSchema = schema.Set{
	Body: []schema.Field{
		{Name: "email", Kind: schema.Email, Required: true, Lowercase: true},
		{Name: "password", Kind: schema.Password, Required: true,
			PatternMessage: "password must contain at least 8 characters, one uppercase, one lowercase, one number and one special character"},
		{Name: "firstName", Kind: schema.String, Required: true, MinLen: 1, MaxLen: 100,
			Pattern: namePattern, PatternMessage: "firstName must contain only letters"},
		{Name: "lastName", Kind: schema.String, Required: true, MinLen: 1, MaxLen: 100,
			Pattern: namePattern, PatternMessage: "lastName must contain only letters"},
		{Name: "role", Kind: schema.OneOf, Required: true,
			Values: []string{api.RoleNameAdmin, api.RoleNameManager, api.RoleNameEditor}},
	},
}

var updateUserSchema = schema.Set{
	Params: []schema.Field{idParam("userID")},
	Body: []schema.Field{
		{Name: "email", Kind: schema.Email, Lowercase: true},
		{Name: "password", Kind: schema.Password,
			PatternMessage: "password must contain at least 8 characters, one uppercase, one lowercase, one number and one special character"},
		{Name: "firstName", Kind: schema.String, MinLen: 1, MaxLen: 100,
			Pattern: namePattern, PatternMessage: "firstName must contain only letters"},
		{Name: "lastName", Kind: schema.String, MinLen: 1, MaxLen: 100,
			Pattern: namePattern, PatternMessage: "lastName must contain only letters"},
		{Name: "role", Kind: schema.OneOf,
			Values: []string{api.RoleNameAdmin, api.RoleNameManager, api.RoleNameEditor}},
	},
}

var deleteUserSchema = getUserSchema

var listPagesSchema = schema.Set{
	Query: append(listQuery("title", "url"),
		schema.Field{Name: "filterStatus", Kind: schema.OneOf,
			Values: []string{api.PageStatusDraft, api.PageStatusPublished}},
	),
}

var getPageSchema = schema.Set{
	Params: []schema.Field{idParam("pageID")},
}

var createPageSchema = schema.Set{
	Body: []schema.Field{
		{Name: "title", Kind: schema.String, Required: true, MinLen: 1, MaxLen: 300},
		{Name: "content", Kind: schema.String, MinLen: 1},
		{Name: "url", Kind: schema.String, Required: true, MinLen: 1, MaxLen: 300},
	},
}

var updatePageSchema = schema.Set{
	Params: []schema.Field{idParam("pageID")},
	Body: []schema.Field{
		{Name: "title", Kind: schema.String, MinLen: 1, MaxLen: 300},
		{Name: "content", Kind: schema.String, MinLen: 1},
		{Name: "url", Kind: schema.String, MinLen: 1, MaxLen: 300},
		{Name: "status", Kind: schema.OneOf,
			Values: []string{api.PageStatusDraft, api.PageStatusPublished}},
	},
}

var deletePageSchema = getPageSchema

var listNavsSchema = schema.Set{
	Query: listQuery("name"),
}

var getNavSchema = schema.Set{
	Params: []schema.Field{idParam("navID")},
}

var createNavSchema = schema.Set{
	Body: []schema.Field{
		{Name: "name", Kind: schema.String, Required: true, MinLen: 1, MaxLen: 100},
		{Name: "pages", Kind: schema.JSON, Required: true},
	},
}

var updateNavSchema = schema.Set{
	Params: []schema.Field{idParam("navID")},
	Body: []schema.Field{
		{Name: "name", Kind: schema.String, MinLen: 1, MaxLen: 100},
		{Name: "pages", Kind: schema.JSON},
	},
}

var deleteNavSchema = getNavSchema
