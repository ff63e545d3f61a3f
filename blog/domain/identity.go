package domain

import "context"

// Identity is the authenticated user on whose behalf a request runs. Create
// attributes authorship to it.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// identityKey is the key type for storing an identity in context.
type identityKey struct{}

// WithIdentity returns a new context carrying the acting identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the acting identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
