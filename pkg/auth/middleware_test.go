package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rgrenier/folio/pkg/token"
)

func resolveIdentity(t *testing.T, tokens *token.Service, authorization string) *Identity {
	t.Helper()

	var resolved *Identity
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = IdentityFromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/pages", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("middleware must never reject, status = %d", rec.Code)
	}
	return resolved
}

func TestMiddlewareNoTokenIsAnonymous(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)

	if id := resolveIdentity(t, tokens, ""); id != nil {
		t.Errorf("identity = %+v, want anonymous (nil)", id)
	}
}

func TestMiddlewareValidTokenAttachesIdentity(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)
	tok, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id := resolveIdentity(t, tokens, "Bearer "+tok)
	if id == nil || id.UserID != 42 {
		t.Errorf("identity = %+v, want UserID 42", id)
	}
}

func TestMiddlewareInvalidTokenIsAnonymous(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)

	if id := resolveIdentity(t, tokens, "Bearer not-a-token"); id != nil {
		t.Errorf("identity = %+v, want anonymous on invalid token", id)
	}
}

func TestMiddlewareForeignSignatureIsAnonymous(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)
	other, _ := token.New([]byte("other-secret"), time.Hour)
	tok, _ := other.Issue(42)

	if id := resolveIdentity(t, tokens, "Bearer "+tok); id != nil {
		t.Errorf("identity = %+v, want anonymous on foreign signature", id)
	}
}

func TestMiddlewareNonBearerSchemeIsAnonymous(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)

	if id := resolveIdentity(t, tokens, "Basic dXNlcjpwYXNz"); id != nil {
		t.Errorf("identity = %+v, want anonymous on non-bearer scheme", id)
	}
}

func TestMiddlewareIdempotentForSameToken(t *testing.T) {
	tokens, _ := token.New([]byte("secret"), time.Hour)
	tok, _ := tokens.Issue(7)

	first := resolveIdentity(t, tokens, "Bearer "+tok)
	second := resolveIdentity(t, tokens, "Bearer "+tok)

	if first == nil || second == nil || first.UserID != second.UserID {
		t.Errorf("identities differ across retries: %+v vs %+v", first, second)
	}
}
