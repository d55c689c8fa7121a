package auth

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is unexported so no other package can collide with it.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// Identity is the authenticated caller of a request: the user and the
// token they presented.
type Identity struct {
	UserID  int64
	TokenID uuid.UUID
}

// NewContextWithIdentity returns a child of ctx carrying id.
func NewContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the Identity stored by RequireToken.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}
