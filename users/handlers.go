package users

import (
	"net/http"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/respond"
)

// UserHandlers provides HTTP handlers for the profile endpoint.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleGetUserProfile godoc
// @Summary Get current user's profile
// @Description Returns the account of the authenticated user.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope{data=users.ProfileData}
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /profile [get]
func (h *UserHandlers) HandleGetUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			respond.Error(w, r, apperror.NewUnauthenticatedError(auth.MsgUnauthenticated, nil))
			return
		}

		user, err := h.service.GetUserProfile(r.Context(), identity.UserID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, "", ProfileData{User: user})
	}
}
