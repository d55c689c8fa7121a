package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. HashedPassword is the bcrypt hash and is
// never serialized.
type User struct {
	ID             int64     `json:"id" example:"1"`
	Name           string    `json:"name" example:"Ada Lovelace"`
	Email          string    `json:"email" example:"ada@example.com"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Token is the stored record of an issued bearer token. ID is the JWT's
// jti claim.
type Token struct {
	ID        uuid.UUID
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
