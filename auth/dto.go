package auth

import "strings"

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255" example:"Ada Lovelace"`
	Email                string `json:"email" validate:"required,email,max=255" example:"ada@example.com"`
	Password             string `json:"password" validate:"required,min=8,maxbytes=72,eqfield=PasswordConfirmation" example:"password123"`
	PasswordConfirmation string `json:"password_confirmation" example:"password123"`
}

func (r *RegisterRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

func (r *LoginRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
}

// AuthData is the data payload of a successful register or login.
type AuthData struct {
	User      *User  `json:"user"`
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string `json:"token_type" example:"Bearer"`
}

// Emails are compared case-insensitively by storing them lower-cased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
