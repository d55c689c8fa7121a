package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/config"
	"github.com/user/taskmaster-go/validation"
)

// AuthService registers users, exchanges credentials for bearer tokens,
// revokes tokens, and authenticates presented tokens.
type AuthService struct {
	users     UserStore
	tokens    TokenStore
	issuer    *TokenIssuer
	validator *validation.Validator
	cost      int
}

// NewAuthService wires the service to its stores.
func NewAuthService(users UserStore, tokens TokenStore, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		issuer:    NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration),
		validator: validation.New(),
		cost:      bcrypt.DefaultCost,
	}
}

// Register validates req, creates the user, and logs them in. A taken email
// is reported as a validation failure on the email field.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthData, error) {
	req.normalize()

	fields, err := s.fieldErrors(req)
	if err != nil {
		return nil, err
	}
	if _, invalid := fields["email"]; !invalid {
		_, err := s.users.FindUserByEmail(ctx, req.Email)
		switch {
		case err == nil:
			fields.Add("email", msgEmailTaken)
		case !errors.Is(err, ErrUserNotFound):
			return nil, apperror.NewDatabaseError("failed to look up email", err)
		}
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(validation.FailedMessage, fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperror.NewValidationError(validation.FailedMessage, apperror.FieldErrors{
				"email": {msgEmailTaken},
			})
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return s.issue(ctx, user)
}

// Login checks the credentials and issues a new token. An unknown email and
// a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthData, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewUnauthenticatedError(MsgInvalidCredentials, nil)
		}
		log.Printf("Database error in Login when looking up user: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewUnauthenticatedError(MsgInvalidCredentials, nil)
	}

	return s.issue(ctx, user)
}

// Logout revokes the token that authenticated the request. Other tokens of
// the same user stay valid.
func (s *AuthService) Logout(ctx context.Context, id Identity) error {
	if err := s.tokens.DeleteToken(ctx, id.TokenID); err != nil {
		return apperror.NewDatabaseError("failed to revoke token", err)
	}
	return nil
}

// Authenticate resolves a raw bearer token to the caller's Identity. Every
// failure other than a storage error is reported as unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Identity, error) {
	claims, jti, err := s.issuer.Parse(raw)
	if err != nil {
		return Identity{}, apperror.NewUnauthenticatedError(MsgUnauthenticated, err)
	}

	record, err := s.tokens.FindToken(ctx, jti)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Identity{}, apperror.NewUnauthenticatedError(MsgUnauthenticated, err)
		}
		return Identity{}, apperror.NewDatabaseError("failed to look up token", err)
	}
	if record.UserID != claims.UserID || !record.ExpiresAt.After(s.issuer.now()) {
		return Identity{}, apperror.NewUnauthenticatedError(MsgUnauthenticated, nil)
	}

	return Identity{UserID: record.UserID, TokenID: record.ID}, nil
}

func (s *AuthService) issue(ctx context.Context, user *User) (*AuthData, error) {
	signed, record, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	if err := s.tokens.CreateToken(ctx, record); err != nil {
		return nil, apperror.NewDatabaseError("failed to store token", err)
	}
	return &AuthData{User: user, Token: signed, TokenType: TokenType}, nil
}

// fieldErrors runs the struct rules and returns the failing fields, or an
// empty map.
func (s *AuthService) fieldErrors(req any) (apperror.FieldErrors, error) {
	err := s.validator.Struct(req)
	if err == nil {
		return apperror.FieldErrors{}, nil
	}
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.ValidationError {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return appErr.Fields, nil
}
