package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
)

// HTTPStatusFromError maps an api.Error kind to the corresponding HTTP
// status code. Authorization denials map to 405, which the API contract
// fixes for privilege failures.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Kind {
	case api.KindValidation:
		return http.StatusBadRequest
	case api.KindAuthentication:
		return http.StatusUnauthorized
	case api.KindAuthorization:
		return http.StatusMethodNotAllowed
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindConflict:
		return http.StatusConflict
	case api.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a JSON error response using the ErrorResponse envelope,
// deriving the HTTP status code from the error kind. Validation errors
// carry their field violation list; every other kind carries its message.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := asAPIError(err)

	var payload any = apiErr.Message
	if apiErr.Kind == api.KindValidation && len(apiErr.Fields) > 0 {
		payload = apiErr.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusFromError(apiErr))
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: payload})
}

// WriteResult writes a JSON success response using the ResultResponse
// envelope with the given status code.
func WriteResult(w http.ResponseWriter, status int, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ResultResponse{Result: result})
}

// asAPIError converts any error to an *api.Error, degrading unknown errors
// to a generic server error so internal details never reach clients.
func asAPIError(err error) *api.Error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return api.NewServerError()
}
