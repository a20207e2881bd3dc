// Package identity implements the authenticated-caller boundary for IntelliSort.
// Callers authenticate against an external OIDC provider; this package verifies
// bearer tokens and carries the resulting principal through request context.
package identity

import "context"

// Principal identifies an authenticated caller.
// Subject is the OIDC subject claim and is the opaque user identifier
// referenced by classification records.
type Principal struct {
	Subject string
	Email   string
	Admin   bool
}

type contextKey struct{}

// WithPrincipal returns a context carrying the given principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal from the context.
// The second return is false when no authenticated caller is present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
