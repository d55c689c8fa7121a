package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/config"
	"github.com/user/taskmaster-go/db"
	"github.com/user/taskmaster-go/server"
	"github.com/user/taskmaster-go/storage/sqlite"
	"github.com/user/taskmaster-go/tasks"
)

// newTestServer starts the real API over an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sqlDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	stores := sqlite.New(sqlDB)
	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Auth:   config.AuthConfig{JWTSecret: "client-test", TokenDuration: time.Hour},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Users:  stores.Users,
		Tokens: stores.Tokens,
		Tasks:  stores.Tasks,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func registration(email string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:                 "Ada",
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
	}
}

// loggedIn returns a client whose token store already holds a valid token.
func loggedIn(t *testing.T, srv *httptest.Server, email string) (*Client, *MemoryTokenStore) {
	t.Helper()
	tokens := &MemoryTokenStore{}
	c := New(srv.URL, tokens, WithHTTPClient(srv.Client()))
	_, err := NewSession(c, tokens).Register(context.Background(), registration(email))
	require.NoError(t, err)
	return c, tokens
}

func strPtr(s string) *string { return &s }

func TestClientTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c, _ := loggedIn(t, srv, "ada@example.com")
	ctx := context.Background()

	user, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	list, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := c.CreateTask(ctx, tasks.TaskRequest{
		Title:   "Buy milk",
		DueDate: strPtr("2025-04-01"),
		Status:  "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, user.ID, created.UserID)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-04-01", created.DueDate.String())

	got, err := c.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := c.UpdateTask(ctx, created.ID, tasks.TaskRequest{Title: "Buy oat milk", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, tasks.StatusCompleted, updated.Status)
	assert.Nil(t, updated.DueDate)

	require.NoError(t, c.DeleteTask(ctx, created.ID))

	_, err = c.GetTask(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Task not found", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthenticated))
}

func TestClientValidationError(t *testing.T) {
	srv := newTestServer(t)
	c, _ := loggedIn(t, srv, "ada@example.com")

	_, err := c.CreateTask(context.Background(), tasks.TaskRequest{Status: "archived"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Errors, "title")
	assert.Contains(t, apiErr.Errors, "status")
}

func TestClientUnauthenticated(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, &MemoryTokenStore{}, WithHTTPClient(srv.Client()))

	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.Contains(t, err.Error(), "Unauthenticated.")
}

func TestClientLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)
	loggedIn(t, srv, "ada@example.com")
	c := New(srv.URL, nil, WithHTTPClient(srv.Client()))

	_, err := c.Login(context.Background(), "ada@example.com", "wrong-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestClientNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListTasks(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
