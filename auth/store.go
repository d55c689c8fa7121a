package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors returned by store implementations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrTokenNotFound = errors.New("token not found")
)

// UserStore persists accounts. Emails are stored and looked up lower-cased.
type UserStore interface {
	// CreateUser inserts u and fills in its ID and timestamps. It returns
	// ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
}

// TokenStore persists issued bearer tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, t *Token) error
	FindToken(ctx context.Context, id uuid.UUID) (*Token, error)
	// DeleteToken removes one token. Deleting a missing token is not an error.
	DeleteToken(ctx context.Context, id uuid.UUID) error
}
