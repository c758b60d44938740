package middleware

import (
	"context"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

type ctxKey struct{}

// WithAuth returns a copy of ctx carrying auth.
func WithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, auth)
}

// AuthFrom returns the identity attached by the Session middleware.
func AuthFrom(ctx context.Context) (domain.AuthContext, bool) {
	auth, ok := ctx.Value(ctxKey{}).(domain.AuthContext)
	if !ok || auth.User == nil {
		return domain.AuthContext{}, false
	}
	return auth, true
}
