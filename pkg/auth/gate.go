package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "styledecor/pkg/errors"
	httputil "styledecor/pkg/http"
	"styledecor/pkg/logger"
)

// Gate wraps individual routes with authentication and, optionally, a
// role requirement. Ownership checks (requester email vs record email)
// stay in the services; the gate only establishes who is calling.
type Gate struct {
	verifier Verifier
	roles    RoleLookup
	log      *logger.Logger
}

func NewGate(verifier Verifier, roles RoleLookup, log *logger.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		roles:    roles,
		log:      log,
	}
}

// Authenticated verifies the bearer token and stores the principal email
// on the context before invoking the wrapped handler.
func (g *Gate) Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email, err := g.authenticate(w, r)
		if err != nil {
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), email)), ps)
	}
}

// Require verifies the bearer token and rejects principals whose stored
// role does not match. A principal with no User record is forbidden.
func (g *Gate) Require(role string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email, err := g.authenticate(w, r)
		if err != nil {
			return
		}

		stored, err := g.roles.RoleByEmail(r.Context(), email)
		if err != nil || stored != role {
			g.log.Warn("Role gate rejected request",
				"email", email,
				"required_role", role,
				"path", r.URL.Path,
			)
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("forbidden access")); writeErr != nil {
				g.log.Error("failed to write error response", "middleware", "Require", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), email)), ps)
	}
}

func (g *Gate) authenticate(w http.ResponseWriter, r *http.Request) (string, error) {
	token, err := BearerToken(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("unauthorized access")); writeErr != nil {
			g.log.Error("failed to write error response", "middleware", "authenticate", "error", writeErr)
		}
		return "", err
	}

	email, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("unauthorized access")); writeErr != nil {
			g.log.Error("failed to write error response", "middleware", "authenticate", "error", writeErr)
		}
		return "", err
	}

	return email, nil
}
