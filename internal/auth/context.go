package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized covers both a missing caller identity and a caller
// lacking the role or ownership an operation requires.
var ErrUnauthorized = errors.New("caller is not authorized")

type contextKey struct{}

// WithPrincipal attaches the resolved caller identity to the context.
// Resolving the identity (sessions, signatures, tokens) happens upstream;
// the core only consumes the result.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

// PrincipalFromContext returns the caller identity set by the transport
// layer. Every mutating operation fails without one.
func PrincipalFromContext(ctx context.Context) (string, error) {
	principal, ok := ctx.Value(contextKey{}).(string)
	if !ok || principal == "" {
		return "", ErrUnauthorized
	}
	return principal, nil
}
