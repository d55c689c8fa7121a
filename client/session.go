package client

import (
	"context"
	"fmt"

	"github.com/user/taskmaster-go/auth"
)

// Session ties the API's auth endpoints to a TokenStore.
type Session struct {
	client *Client
	tokens TokenStore
}

// NewSession creates a Session. tokens should be the store c reads from.
func NewSession(c *Client, tokens TokenStore) *Session {
	return &Session{client: c, tokens: tokens}
}

// Register creates an account and stores its token.
func (s *Session) Register(ctx context.Context, in auth.RegisterRequest) (*auth.User, error) {
	data, err := s.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return data.User, s.save(data.Token)
}

// Login stores a fresh token for the credentials.
func (s *Session) Login(ctx context.Context, email, password string) (*auth.User, error) {
	data, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return data.User, s.save(data.Token)
}

// Logout revokes the token on the server and forgets it locally. The local
// token is cleared even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	serverErr := s.client.Logout(ctx)
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	return serverErr
}

// LoggedIn reports whether a token is stored.
func (s *Session) LoggedIn() bool {
	token, err := s.tokens.Load()
	return err == nil && token != ""
}

func (s *Session) save(token string) error {
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
