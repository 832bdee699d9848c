package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rgrenier/folio/pkg/api"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  *api.Error
		want int
	}{
		{"validation", api.NewValidationError([]api.FieldError{{Field: "email", Message: "bad"}}), http.StatusBadRequest},
		{"authentication", api.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{"authorization", api.NewForbiddenError(), http.StatusMethodNotAllowed},
		{"not found", api.NewNotFoundError(), http.StatusNotFound},
		{"conflict", api.NewConflictError("duplicate"), http.StatusConflict},
		{"too many requests", api.NewTooManyRequestsError(), http.StatusTooManyRequests},
		{"server", api.NewServerError(), http.StatusInternalServerError},
		{"unknown kind", &api.Error{Kind: "mystery"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.want {
				t.Errorf("HTTPStatusFromError(%s) = %d, want %d", tt.err.Kind, got, tt.want)
			}
		})
	}
}

func TestWriteErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, api.NewForbiddenError())

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "Forbidden" {
		t.Errorf("error = %q, want \"Forbidden\"", body.Error)
	}
}

func TestWriteErrorValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, api.NewValidationError([]api.FieldError{
		{Field: "email", Message: "email must be a valid email"},
		{Field: "password", Message: "password is a required field"},
	}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error []api.FieldError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Error) != 2 {
		t.Fatalf("len(error) = %d, want 2", len(body.Error))
	}
	if body.Error[0].Field != "email" {
		t.Errorf("error[0].field = %q, want \"email\"", body.Error[0].Field)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused on 10.0.0.3"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "Internal server error" {
		t.Errorf("error = %q, want generic message", body.Error)
	}
}

func TestWriteResult(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, http.StatusOK, map[string]int{"id": 7})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Result map[string]int `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Result["id"] != 7 {
		t.Errorf("result.id = %d, want 7", body.Result["id"])
	}
}
