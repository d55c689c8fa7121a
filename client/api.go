// Package client is the Go Task Client: a typed HTTP client for the
// TaskMaster API, credential storage, and the task board view state that
// the command-line front end drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/tasks"
)

// ErrUnauthenticated matches every *APIError with status 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrUnauthenticated) hold for 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthenticated && e.StatusCode == http.StatusUnauthorized
}

// envelope mirrors the server's response body.
type envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// Client calls the TaskMaster API. The bearer token is read from the
// TokenStore on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account. It does not store the returned token; see
// Session for that.
func (c *Client) Register(ctx context.Context, in auth.RegisterRequest) (*auth.AuthData, error) {
	var data auth.AuthData
	if err := c.do(ctx, http.MethodPost, "/register", in, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthData, error) {
	var data auth.AuthData
	body := auth.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Profile returns the logged-in user.
func (c *Client) Profile(ctx context.Context) (*auth.User, error) {
	var data struct {
		User *auth.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]tasks.Task, error) {
	var data tasks.TaskListData
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &data); err != nil {
		return nil, err
	}
	if data.Tasks == nil {
		data.Tasks = []tasks.Task{}
	}
	return data.Tasks, nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id int64) (*tasks.Task, error) {
	var data tasks.TaskData
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &data); err != nil {
		return nil, err
	}
	return data.Task, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in tasks.TaskRequest) (*tasks.Task, error) {
	var data tasks.TaskData
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &data); err != nil {
		return nil, err
	}
	return data.Task, nil
}

// UpdateTask replaces all mutable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, in tasks.TaskRequest) (*tasks.Task, error) {
	var data tasks.TaskData
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &data); err != nil {
		return nil, err
	}
	return data.Task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Load()
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
