package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rgrenier/folio/pkg/api"
)

// Location identifies where in the request a field is read from.
type Location string

const (
	Body   Location = "body"
	Params Location = "params"
	Query  Location = "query"
)

// locations is the fixed evaluation order across locations.
var locations = []Location{Body, Params, Query}

// Kind selects the coercion and constraint rules for a field.
type Kind int

const (
	// String validates a string with optional pattern, length, and case
	// normalization constraints.
	String Kind = iota

	// Int coerces JSON numbers and numeric strings to int64 and applies
	// range constraints. Fractional numbers are a type error.
	Int

	// Email validates a string as an email address.
	Email

	// OneOf validates a string against a fixed value set,
	// case-insensitively. The coerced value is the declared spelling.
	OneOf

	// Password validates string strength: at least 8 characters with a
	// lower-case letter, an upper-case letter, a digit, and a special
	// character. (RE2 has no lookahead, so this cannot be a Pattern.)
	Password

	// JSON passes any value through untouched. Only the required flag
	// applies.
	JSON
)

// Field describes validation and coercion for one named input field. The
// zero constraints are inert: a Field with only Name and Kind accepts any
// value of that kind.
type Field struct {
	Name     string
	Kind     Kind
	Label    string // used in error messages; defaults to Name
	Required bool
	Default  any // applied only when the field is absent, never when present-but-invalid

	// TypeMessage overrides the coercion failure message for Int fields
	// (e.g. "Invalid ID").
	TypeMessage string

	// String constraints.
	Pattern        *regexp.Regexp
	PatternMessage string
	MinLen, MaxLen int // 0 means unconstrained
	Lowercase      bool

	// Int constraints.
	Min, Max *int64

	// OneOf value set.
	Values []string
}

// Set maps each location to its ordered field descriptors. A nil slice
// validates an empty or absent input for that location as success.
type Set struct {
	Body   []Field
	Params []Field
	Query  []Field
}

func (s Set) fields(loc Location) []Field {
	switch loc {
	case Body:
		return s.Body
	case Params:
		return s.Params
	default:
		return s.Query
	}
}

// Input holds the raw request values per location. Body values come from
// JSON decoding (string, float64, bool, map, slice); params and query
// values are strings. Missing locations may be nil.
type Input map[Location]map[string]any

// Values is the sanitized value bag produced by a successful validation.
// Absent optional fields without defaults are omitted, not nil.
type Values map[Location]map[string]any

// Has reports whether the field was supplied (or defaulted).
func (v Values) Has(loc Location, name string) bool {
	_, ok := v[loc][name]
	return ok
}

// String returns the coerced string value of a field, or "" when absent.
func (v Values) String(loc Location, name string) string {
	s, _ := v[loc][name].(string)
	return s
}

// Int returns the coerced integer value of a field, or 0 when absent.
func (v Values) Int(loc Location, name string) int64 {
	n, _ := v[loc][name].(int64)
	return n
}

// Raw returns the uncoerced value of a JSON passthrough field.
func (v Values) Raw(loc Location, name string) any {
	return v[loc][name]
}

// Validate evaluates every field of the set against the input. It returns
// the sanitized value bag and a nil error list on success, or a non-empty
// ordered list of field violations. The two results are mutually
// exclusive.
func Validate(set Set, in Input) (Values, []api.FieldError) {
	values := Values{}
	var errs []api.FieldError

	for _, loc := range locations {
		bag := map[string]any{}
		raw := in[loc]

		for _, f := range set.fields(loc) {
			rv, present := raw[f.Name]
			if !present || rv == nil {
				if f.Default != nil {
					bag[f.Name] = f.Default
				} else if f.Required {
					errs = append(errs, api.FieldError{
						Field:   f.Name,
						Message: fmt.Sprintf("%s is a required field", f.label()),
					})
				}
				continue
			}

			v, err := f.coerce(rv)
			if err != nil {
				errs = append(errs, api.FieldError{Field: f.Name, Message: err.Error()})
				continue
			}
			bag[f.Name] = v
		}

		values[loc] = bag
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// coerce converts a raw input value to its typed form and applies the
// field's constraints.
func (f Field) coerce(rv any) (any, error) {
	switch f.Kind {
	case Int:
		return f.coerceInt(rv)
	case JSON:
		return rv, nil
	default:
		return f.coerceString(rv)
	}
}

func (f Field) coerceInt(rv any) (any, error) {
	var n int64

	switch v := rv.(type) {
	case float64:
		// JSON numbers decode as float64; the integer constraint rejects
		// fractional values as a type error, not a range error.
		if v != math.Trunc(v) {
			return nil, f.typeError()
		}
		n = int64(v)
	case int64:
		n = v
	case int:
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, f.typeError()
		}
		n = parsed
	default:
		return nil, f.typeError()
	}

	if f.Min != nil && n < *f.Min {
		return nil, fmt.Errorf("%s must be greater than or equal to %d", f.label(), *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, fmt.Errorf("%s must be less than or equal to %d", f.label(), *f.Max)
	}

	return n, nil
}

func (f Field) typeError() error {
	if f.TypeMessage != "" {
		return fmt.Errorf("%s", f.TypeMessage)
	}
	return fmt.Errorf("%s must be a number", f.label())
}

// emailPattern is deliberately permissive: one @, non-empty local part, and
// a dotted domain. Deliverability is not a validation concern.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (f Field) coerceString(rv any) (any, error) {
	s, ok := rv.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", f.label())
	}

	if f.Lowercase {
		s = strings.ToLower(s)
	}

	if f.MinLen > 0 && len(s) < f.MinLen {
		return nil, fmt.Errorf("%s must be at least %d characters", f.label(), f.MinLen)
	}
	if f.MaxLen > 0 && len(s) > f.MaxLen {
		return nil, fmt.Errorf("%s must be at most %d characters", f.label(), f.MaxLen)
	}

	switch f.Kind {
	case Email:
		if !emailPattern.MatchString(s) {
			return nil, fmt.Errorf("%s must be a valid email", f.label())
		}
	case Password:
		if !strongPassword(s) {
			if f.PatternMessage != "" {
				return nil, fmt.Errorf("%s", f.PatternMessage)
			}
			return nil, fmt.Errorf("%s is too weak", f.label())
		}
	case OneOf:
		match := ""
		for _, allowed := range f.Values {
			if strings.EqualFold(s, allowed) {
				match = allowed
				break
			}
		}
		if match == "" {
			return nil, fmt.Errorf("%s must be one of the following values: %s",
				f.label(), strings.Join(f.Values, ", "))
		}
		s = match
	}

	if f.Pattern != nil && !f.Pattern.MatchString(s) {
		if f.PatternMessage != "" {
			return nil, fmt.Errorf("%s", f.PatternMessage)
		}
		return nil, fmt.Errorf("%s is invalid", f.label())
	}

	return s, nil
}

// strongPassword reports whether s has at least 8 characters and contains
// a lower-case letter, an upper-case letter, a digit, and a special
// character.
func strongPassword(s string) bool {
	var lower, upper, digit, special bool
	runes := []rune(s)
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			if !unicode.IsLetter(r) {
				special = true
			}
		}
	}
	return len(runes) >= 8 && lower && upper && digit && special
}
