package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/db"
	"github.com/user/taskmaster-go/storage/sqlite"
)

type failingDeleter struct{}

func (failingDeleter) DeleteExpiredTokens(context.Context, time.Time) (int64, error) {
	return 0, errors.New("database is locked")
}

func TestPruneExpiredTokens(t *testing.T) {
	sqlDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	stores := sqlite.New(sqlDB)
	ctx := context.Background()

	u := &auth.User{Name: "Ada", Email: "ada@example.com", HashedPassword: "hash"}
	require.NoError(t, stores.Users.CreateUser(ctx, u))

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, expires := range []time.Duration{-time.Hour, -time.Second, time.Hour} {
		require.NoError(t, stores.Tokens.CreateToken(ctx, &auth.Token{
			ID: uuid.New(), UserID: u.ID, ExpiresAt: now.Add(expires), CreatedAt: now.Add(-2 * time.Hour),
		}))
	}

	n, err := PruneExpiredTokens(ctx, stores.Tokens, now.In(time.FixedZone("CEST", 2*3600)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = PruneExpiredTokens(ctx, stores.Tokens, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPruneExpiredTokensWrapsError(t *testing.T) {
	_, err := PruneExpiredTokens(context.Background(), failingDeleter{}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prune expired tokens")
}
