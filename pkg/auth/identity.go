package auth

import "context"

// Identity is an authenticated caller: the minimal payload embedded in a
// verified token. A nil *Identity is the anonymous caller; an identity is
// only ever constructed after successful token verification.
type Identity struct {
	UserID int64
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity. Returns nil
// for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
