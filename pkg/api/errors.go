package api

import "fmt"

// ErrorKind categorizes an Error for status mapping at the transport layer.
type ErrorKind string

const (
	// KindValidation covers one or more field-level violations. Recoverable
	// by the caller correcting input.
	KindValidation ErrorKind = "validation"

	// KindAuthentication covers missing, invalid, or expired credentials.
	// Recoverable by re-authenticating.
	KindAuthentication ErrorKind = "authentication"

	// KindAuthorization covers a valid identity with insufficient privilege.
	KindAuthorization ErrorKind = "authorization"

	// KindNotFound covers a valid request whose target resource is absent.
	KindNotFound ErrorKind = "not_found"

	// KindConflict covers uniqueness violations (duplicate email, title, url).
	KindConflict ErrorKind = "conflict"

	// KindTooManyRequests covers rate-limited sign-in attempts.
	KindTooManyRequests ErrorKind = "too_many_requests"

	// KindServer covers internal failures. Details are never sent to clients.
	KindServer ErrorKind = "server_error"
)

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the caller-visible error carried from the core to the transport
// layer. Fields is populated only for KindValidation.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%d field errors)", e.Kind, e.Message, len(e.Fields))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError creates an Error from a non-empty list of field
// violations.
func NewValidationError(fields []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Invalid input",
		Fields:  fields,
	}
}

// NewInvalidCredentialsError creates the sign-in failure error. Unknown
// email and mismatched password deliberately produce the same error to
// avoid account enumeration.
func NewInvalidCredentialsError() *Error {
	return &Error{Kind: KindAuthentication, Message: "Invalid credentials."}
}

// NewForbiddenError creates a uniform authorization denial. The message
// never reveals whether the target resource exists.
func NewForbiddenError() *Error {
	return &Error{Kind: KindAuthorization, Message: "Forbidden"}
}

// NewNotFoundError creates an Error for an absent resource, returned only
// after authorization allowed the operation.
func NewNotFoundError() *Error {
	return &Error{Kind: KindNotFound, Message: "Not found"}
}

// NewConflictError creates an Error for a uniqueness violation.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewTooManyRequestsError creates an Error for rate-limited requests.
func NewTooManyRequestsError() *Error {
	return &Error{Kind: KindTooManyRequests, Message: "Too many requests"}
}

// NewServerError creates an Error for internal failures. The message should
// stay generic; internal details belong in logs, never in responses.
func NewServerError() *Error {
	return &Error{Kind: KindServer, Message: "Internal server error"}
}

// ErrorResponse is the failure envelope. Error holds either a message
// string or a []FieldError list.
type ErrorResponse struct {
	Error any `json:"error"`
}

// ResultResponse is the success envelope.
type ResultResponse struct {
	Result any `json:"result"`
}
