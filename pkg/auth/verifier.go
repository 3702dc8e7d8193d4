package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Verifier turns a bearer token into a verified principal email. A failure
// is terminal for the request; there are no retries.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RoleLookup resolves the stored marketplace role for a principal email.
// Every gated request performs a fresh lookup; roles are never cached.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
