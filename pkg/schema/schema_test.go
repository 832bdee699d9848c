package schema

import (
	"regexp"
	"testing"
)

func i64(v int64) *int64 { return &v }

func listQuery() []Field {
	return []Field{
		{Name: "limit", Kind: Int, Label: "Limit", Min: i64(1), Max: i64(100), Default: int64(5)},
		{Name: "page", Kind: Int, Label: "Page", Min: i64(1), Default: int64(1)},
		{Name: "order", Kind: OneOf, Label: "Order", Lowercase: true, Values: []string{"asc", "desc"}, Default: "desc"},
	}
}

func TestValidate_DefaultsApplied(t *testing.T) {
	set := Set{Query: listQuery()}

	values, errs := Validate(set, Input{Query: map[string]any{}})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if got := values.Int(Query, "limit"); got != 5 {
		t.Errorf("limit = %d, want default 5", got)
	}
	if got := values.Int(Query, "page"); got != 1 {
		t.Errorf("page = %d, want default 1", got)
	}
	if got := values.String(Query, "order"); got != "desc" {
		t.Errorf("order = %q, want default %q", got, "desc")
	}
}

func TestValidate_NumericStringCoercion(t *testing.T) {
	set := Set{Params: []Field{
		{Name: "userId", Kind: Int, Label: "ID", Required: true, Min: i64(1), TypeMessage: "Invalid ID"},
	}}

	values, errs := Validate(set, Input{Params: map[string]any{"userId": "42"}})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := values.Int(Params, "userId"); got != 42 {
		t.Errorf("userId = %d, want 42", got)
	}
}

func TestValidate_TypeErrorDistinctFromRangeError(t *testing.T) {
	set := Set{Params: []Field{
		{Name: "id", Kind: Int, Label: "ID", Required: true, Min: i64(1), TypeMessage: "Invalid ID"},
	}}

	_, errs := Validate(set, Input{Params: map[string]any{"id": "abc"}})
	if len(errs) != 1 || errs[0].Message != "Invalid ID" {
		t.Fatalf("coercion failure errors = %v, want [Invalid ID]", errs)
	}

	_, errs = Validate(set, Input{Params: map[string]any{"id": "0"}})
	if len(errs) != 1 || errs[0].Message != "ID must be greater than or equal to 1" {
		t.Fatalf("range failure errors = %v", errs)
	}
}

func TestValidate_FractionalNumberIsTypeError(t *testing.T) {
	set := Set{Body: []Field{{Name: "n", Kind: Int, Label: "N"}}}

	_, errs := Validate(set, Input{Body: map[string]any{"n": 1.5}})
	if len(errs) != 1 || errs[0].Message != "N must be a number" {
		t.Fatalf("errs = %v, want type error", errs)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	set := Set{
		Body: []Field{
			{Name: "email", Kind: Email, Label: "E-mail", Required: true},
			{Name: "firstName", Kind: String, Label: "First name", Required: true},
			{Name: "role", Kind: OneOf, Label: "Role", Required: true, Values: []string{"admin", "manager", "editor"}},
		},
		Params: []Field{
			{Name: "userId", Kind: Int, Label: "ID", Required: true, TypeMessage: "Invalid ID"},
		},
	}

	_, errs := Validate(set, Input{
		Body:   map[string]any{"email": "not-an-email", "role": "owner"},
		Params: map[string]any{"userId": "x"},
	})

	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4 (all violations in one call): %v", len(errs), errs)
	}

	// Declaration order within each location, body before params.
	wantFields := []string{"email", "firstName", "role", "userId"}
	for i, want := range wantFields {
		if errs[i].Field != want {
			t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, want)
		}
	}
}

func TestValidate_AbsentOptionalOmitted(t *testing.T) {
	set := Set{Body: []Field{
		{Name: "title", Kind: String, Label: "Title"},
		{Name: "content", Kind: String, Label: "Content"},
	}}

	values, errs := Validate(set, Input{Body: map[string]any{"title": "Home"}})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if !values.Has(Body, "title") {
		t.Error("title should be present")
	}
	if values.Has(Body, "content") {
		t.Error("absent optional field must be omitted from the result, not nil")
	}
}

func TestValidate_ZeroFieldSchemaAcceptsEmptyInput(t *testing.T) {
	if _, errs := Validate(Set{}, Input{}); errs != nil {
		t.Fatalf("empty set over empty input should validate, got %v", errs)
	}
	if _, errs := Validate(Set{}, nil); errs != nil {
		t.Fatalf("empty set over nil input should validate, got %v", errs)
	}
}

func TestValidate_OneOfCaseInsensitiveCanonical(t *testing.T) {
	set := Set{Query: []Field{
		{Name: "status", Kind: OneOf, Label: "Status", Values: []string{"draft", "published"}},
	}}

	values, errs := Validate(set, Input{Query: map[string]any{"status": "Published"}})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := values.String(Query, "status"); got != "published" {
		t.Errorf("status = %q, want canonical %q", got, "published")
	}
}

func TestValidate_PasswordStrength(t *testing.T) {
	msg := "Password must be at least 8 chars & contain at least one of each: lower case, upper case, digit, special char."
	set := Set{Body: []Field{{
		Name:           "password",
		Kind:           Password,
		Label:          "Password",
		Required:       true,
		PatternMessage: msg,
	}}}

	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Str0ng!pass", true},
		{"no upper", "weak1pass!", false},
		{"no digit", "Weakpass!", false},
		{"no special", "Weakpass1", false},
		{"too short", "W1a!bcd", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := Validate(set, Input{Body: map[string]any{"password": tc.password}})
			if tc.ok && errs != nil {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if !tc.ok {
				if len(errs) != 1 || errs[0].Message != msg {
					t.Fatalf("errs = %v, want strength message", errs)
				}
			}
		})
	}
}

func TestValidate_NamePattern(t *testing.T) {
	set := Set{Body: []Field{{
		Name:           "firstName",
		Kind:           String,
		Label:          "First name",
		Required:       true,
		Pattern:        regexp.MustCompile(`^[\p{L} -]+$`),
		PatternMessage: "First name is invalid",
	}}}

	if _, errs := Validate(set, Input{Body: map[string]any{"firstName": "Anne-Marie Løkke"}}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	_, errs := Validate(set, Input{Body: map[string]any{"firstName": "R2D2"}})
	if len(errs) != 1 || errs[0].Message != "First name is invalid" {
		t.Fatalf("errs = %v, want pattern message", errs)
	}
}

func TestValidate_RequiredVsDefaultPrecedence(t *testing.T) {
	// A present-but-invalid value must NOT fall back to the default.
	set := Set{Query: []Field{
		{Name: "limit", Kind: Int, Label: "Limit", Min: i64(1), Max: i64(100), Default: int64(5)},
	}}

	_, errs := Validate(set, Input{Query: map[string]any{"limit": "500"}})
	if len(errs) != 1 {
		t.Fatalf("present-but-invalid must error, not default: %v", errs)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	set := Set{Body: []Field{
		{Name: "a", Kind: String, Required: true},
		{Name: "b", Kind: Int, Required: true},
	}}
	in := Input{Body: map[string]any{"b": "nope"}}

	_, first := Validate(set, in)
	_, second := Validate(set, in)

	if len(first) != len(second) {
		t.Fatalf("error counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("errs[%d] differ: %v vs %v", i, first[i], second[i])
		}
	}
}
