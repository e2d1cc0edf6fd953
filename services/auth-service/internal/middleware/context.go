package middleware

import (
	"context"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   model.Role
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by the gate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
