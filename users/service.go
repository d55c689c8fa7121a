// Package users serves the authenticated user's own account data.
package users

import (
	"context"
	"errors"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/auth"
)

// UserService reads user profiles.
type UserService struct {
	users auth.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users auth.UserStore) *UserService {
	return &UserService{users: users}
}

// GetUserProfile returns the account of userID. A user deleted after the
// token was checked is reported as unauthenticated.
func (s *UserService) GetUserProfile(ctx context.Context, userID int64) (*auth.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NewUnauthenticatedError(auth.MsgUnauthenticated, err)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return user, nil
}
