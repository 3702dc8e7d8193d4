package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"styledecor/pkg/logger"
)

type fakeVerifier struct {
	email string
	err   error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.email, nil
}

type fakeRoleLookup struct {
	roles map[string]string
	err   error
}

func (f *fakeRoleLookup) RoleByEmail(ctx context.Context, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[email]
	if !ok {
		return "", context.Canceled
	}
	return role, nil
}

func testGate(verifier Verifier, roles RoleLookup) *Gate {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return NewGate(verifier, roles, log)
}

func noopHandle(called *bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticatedMissingToken(t *testing.T) {
	gate := testGate(&fakeVerifier{email: "client@example.com"}, nil)

	called := false
	handle := gate.Authenticated(noopHandle(&called))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if called {
		t.Error("handler must not run without a token")
	}
}

func TestAuthenticatedInvalidToken(t *testing.T) {
	gate := testGate(&fakeVerifier{err: ErrInvalidToken}, nil)

	called := false
	handle := gate.Authenticated(noopHandle(&called))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	r.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if called {
		t.Error("handler must not run with an invalid token")
	}
}

func TestAuthenticatedSetsPrincipal(t *testing.T) {
	gate := testGate(&fakeVerifier{email: "client@example.com"}, nil)

	var principal string
	handle := gate.Authenticated(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		principal, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if principal != "client@example.com" {
		t.Errorf("expected principal email, got %q", principal)
	}
}

func TestRequireRoleMismatch(t *testing.T) {
	gate := testGate(
		&fakeVerifier{email: "client@example.com"},
		&fakeRoleLookup{roles: map[string]string{"client@example.com": "client"}},
	)

	called := false
	handle := gate.Require("admin", noopHandle(&called))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if called {
		t.Error("handler must not run for a mismatched role")
	}
}

func TestRequireUnknownPrincipal(t *testing.T) {
	gate := testGate(
		&fakeVerifier{email: "ghost@example.com"},
		&fakeRoleLookup{roles: map[string]string{}},
	)

	called := false
	handle := gate.Require("client", noopHandle(&called))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for principal with no user record, got %d", w.Code)
	}
	if called {
		t.Error("handler must not run for unknown principal")
	}
}

func TestRequireRoleMatch(t *testing.T) {
	gate := testGate(
		&fakeVerifier{email: "admin@example.com"},
		&fakeRoleLookup{roles: map[string]string{"admin@example.com": "admin"}},
	)

	called := false
	handle := gate.Require("admin", noopHandle(&called))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !called {
		t.Error("handler should run for a matching role")
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := BearerToken(r); err != ErrMissingToken {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}

	r.Header.Set("Authorization", "Basic abc")
	if _, err := BearerToken(r); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for non-bearer scheme, got %v", err)
	}

	r.Header.Set("Authorization", "Bearer tok123")
	token, err := BearerToken(r)
	if err != nil || token != "tok123" {
		t.Errorf("expected token tok123, got %q err %v", token, err)
	}
}
