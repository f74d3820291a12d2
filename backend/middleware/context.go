package middleware

import (
	"context"

	"github.com/upb/association-hub/backend/internal/policy"
)

// Context key type to avoid collisions
type contextKey string

const (
	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey contextKey = "principal"
)

// GetPrincipalFromContext retrieves the authenticated principal. Nil means anonymous.
func GetPrincipalFromContext(ctx context.Context) *policy.Principal {
	if val := ctx.Value(PrincipalKey); val != nil {
		if p, ok := val.(*policy.Principal); ok {
			return p
		}
	}
	return nil
}

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, p *policy.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
