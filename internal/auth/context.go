// Package auth carries verified token claims through the request context.
package auth

import (
	"context"

	"github.com/alterwhite/alterwhite-api/internal/token"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// claimsContextKey is the context key for storing verified claims.
const claimsContextKey contextKey = "token_claims"

// ContextWithClaims adds verified claims to the context.
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves verified claims from the context.
// Returns nil if the request did not pass through the auth middleware.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}

// EmailFromContext is a convenience accessor for the verified caller email.
// Returns empty string if not authenticated.
func EmailFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Email
}
