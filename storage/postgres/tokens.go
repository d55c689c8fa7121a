package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/taskmaster-go/auth"
)

// TokenStore implements auth.TokenStore.
type TokenStore struct {
	pool *pgxpool.Pool
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) CreateToken(ctx context.Context, t *auth.Token) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO personal_access_tokens (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.ExpiresAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *TokenStore) FindToken(ctx context.Context, id uuid.UUID) (*auth.Token, error) {
	var t auth.Token
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at FROM personal_access_tokens WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("select token: %w", err)
	}
	return &t, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM personal_access_tokens WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpiredTokens removes tokens expired at or before the cutoff.
func (s *TokenStore) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM personal_access_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
