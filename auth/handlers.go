package auth

import (
	"net/http"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/respond"
	"github.com/user/taskmaster-go/validation"
)

// Handlers exposes AuthService over HTTP.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Creates an account and returns a bearer token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} respond.Envelope{data=auth.AuthData} "User registered successfully"
// @Failure 422 {object} apperror.ErrorResponse "Validation failed, including a taken email"
// @Failure 429 {object} apperror.ErrorResponse "Too many attempts"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		data, err := h.service.Register(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusCreated, MsgRegistered, data)
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Exchanges email and password for a new bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} respond.Envelope{data=auth.AuthData} "Login successful"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 422 {object} apperror.ErrorResponse "Validation failed"
// @Failure 429 {object} apperror.ErrorResponse "Too many attempts"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		data, err := h.service.Login(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, MsgLoggedIn, data)
	}
}

// HandleLogout godoc
// @Summary User Logout
// @Description Revokes the bearer token used for this request.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope "Successfully logged out"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			respond.Error(w, r, apperror.NewUnauthenticatedError(MsgUnauthenticated, nil))
			return
		}

		if err := h.service.Logout(r.Context(), identity); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, MsgLoggedOut, nil)
	}
}
