package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/user/taskmaster-go/auth"
)

// TokenStore implements auth.TokenStore.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) CreateToken(ctx context.Context, t *auth.Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_access_tokens (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		t.ID.String(), t.UserID, formatTime(t.ExpiresAt), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *TokenStore) FindToken(ctx context.Context, id uuid.UUID) (*auth.Token, error) {
	var (
		t                auth.Token
		rawID            string
		expires, created any
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at FROM personal_access_tokens WHERE id = ?`, id.String(),
	).Scan(&rawID, &t.UserID, &expires, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}

	if t.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse token id: %w", err)
	}
	if t.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpiredTokens removes tokens expired at or before the cutoff.
// Timestamps are stored fixed-width, so text comparison orders them.
func (s *TokenStore) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE expires_at <= ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return res.RowsAffected()
}
