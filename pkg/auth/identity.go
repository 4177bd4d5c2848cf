// Package auth resolves the actor behind a write. Repositories record the
// actor id in the document envelope; this package turns credentials into
// that id.
package auth

import "context"

// Identity resolves the acting user for a request context. Implementations
// must return "" (anonymous) rather than an error when no actor is present.
type Identity interface {
	ActorID(ctx context.Context) string
}

// StaticIdentity always reports the same actor. Used by CLI tooling and
// seeds, where the operator is known up front.
type StaticIdentity string

// ActorID returns the fixed actor id.
func (s StaticIdentity) ActorID(context.Context) string { return string(s) }

// claimsContextKey is the context key for storing verified claims.
type claimsContextKey struct{}

// WithClaims stores verified claims in the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// GetClaims retrieves claims from the context. Returns nil if no claims are
// found.
func GetClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsContextKey{}).(*Claims); ok {
		return claims
	}
	return nil
}

// ContextIdentity resolves the actor from claims previously stored on the
// context by token verification.
type ContextIdentity struct{}

// ActorID returns the subject of the verified claims, or "" when the context
// carries none.
func (ContextIdentity) ActorID(ctx context.Context) string {
	claims := GetClaims(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
