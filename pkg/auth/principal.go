package auth

import "context"

type contextKey string

const principalKey contextKey = "principal_email"

// WithPrincipal stores the verified email on the request context.
func WithPrincipal(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, principalKey, email)
}

// PrincipalFromContext returns the verified email set by the gate.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(principalKey).(string)
	return email, ok && email != ""
}
