package server

import (
	"context"

	"blogd/internal/auth"
)

type authContextKey struct{}

func contextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, authContextKey{}, claims)
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(authContextKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}
