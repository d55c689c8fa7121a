// Package server assembles the HTTP router: the global middleware stack,
// CORS, the Swagger UI, and the public and token-protected route groups.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/config"
	_ "github.com/user/taskmaster-go/docs" // registers the OpenAPI document
	"github.com/user/taskmaster-go/respond"
	"github.com/user/taskmaster-go/tasks"
	"github.com/user/taskmaster-go/users"
)

// Deps are the collaborators the router needs. The stores may be backed by
// any storage driver.
type Deps struct {
	Auth   config.AuthConfig
	Server config.ServerConfig
	Users  auth.UserStore
	Tokens auth.TokenStore
	Tasks  tasks.Repository
}

// NewRouter builds the complete HTTP handler.
func NewRouter(deps Deps) http.Handler {
	authService := auth.NewAuthService(deps.Users, deps.Tokens, deps.Auth)
	authHandlers := auth.NewHandlers(authService)

	userHandlers := users.NewUserHandlers(users.NewUserService(deps.Users))
	taskHandlers := tasks.NewHandlers(tasks.NewService(deps.Tasks))

	limiter := auth.NewRateLimiter(deps.Auth.RateLimit, deps.Auth.RateBurst)

	timeout := deps.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := deps.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(recoverEnvelope)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperror.NewNotFoundError("Not Found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Message: "Method Not Allowed"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/test", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(authService))

		r.Post("/logout", authHandlers.HandleLogout())
		r.Get("/profile", userHandlers.HandleGetUserProfile())
		r.Route("/tasks", taskHandlers.RegisterRoutes)
	})

	return r
}

// handleHealth godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} respond.Envelope "API is running"
// @Router /test [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, http.StatusOK, "API is running", nil)
}

// recoverEnvelope turns a panic in a handler into the generic 500 envelope.
func recoverEnvelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Printf("Panic: %+v", rvr)
				respond.Error(w, r, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
