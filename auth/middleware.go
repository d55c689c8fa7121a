package auth

import (
	"net/http"
	"strings"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/respond"
)

// RequireToken authenticates the Authorization: Bearer header with service
// and stores the caller's Identity in the request context. Requests without
// a live token are answered with 401 before reaching next.
func RequireToken(service *AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, apperror.NewUnauthenticatedError(MsgUnauthenticated, nil))
				return
			}

			identity, err := service.Authenticate(r.Context(), raw)
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			ctx := NewContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Bearer {token}". The scheme is
// matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
