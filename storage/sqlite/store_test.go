package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/db"
	"github.com/user/taskmaster-go/tasks"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	sqlDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return New(sqlDB)
}

func createUser(t *testing.T, s *Stores, email string) *auth.User {
	t.Helper()
	u := &auth.User{Name: "Test User", Email: email, HashedPassword: "hash"}
	require.NoError(t, s.Users.CreateUser(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func TestUserStore(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := createUser(t, s, "ada@example.com")
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := s.Users.FindUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.HashedPassword)
	assert.WithinDuration(t, u.CreatedAt, byEmail.CreatedAt, time.Millisecond)

	byID, err := s.Users.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	_, err = s.Users.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	err = s.Users.CreateUser(ctx, &auth.User{Name: "Dup", Email: "ada@example.com", HashedPassword: "x"})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestTokenStore(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	u := createUser(t, s, "ada@example.com")

	created := time.Now().UTC().Truncate(time.Microsecond)
	tok := &auth.Token{ID: uuid.New(), UserID: u.ID, ExpiresAt: created.Add(time.Hour), CreatedAt: created}
	require.NoError(t, s.Tokens.CreateToken(ctx, tok))

	found, err := s.Tokens.FindToken(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, tok.ID, found.ID)
	assert.Equal(t, u.ID, found.UserID)
	assert.True(t, tok.ExpiresAt.Equal(found.ExpiresAt))

	require.NoError(t, s.Tokens.DeleteToken(ctx, tok.ID))
	_, err = s.Tokens.FindToken(ctx, tok.ID)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)

	assert.NoError(t, s.Tokens.DeleteToken(ctx, tok.ID))
}

func TestDeleteExpiredTokens(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	u := createUser(t, s, "ada@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	expired := &auth.Token{ID: uuid.New(), UserID: u.ID, ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}
	live := &auth.Token{ID: uuid.New(), UserID: u.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	require.NoError(t, s.Tokens.CreateToken(ctx, expired))
	require.NoError(t, s.Tokens.CreateToken(ctx, live))

	n, err := s.Tokens.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Tokens.FindToken(ctx, expired.ID)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	_, err = s.Tokens.FindToken(ctx, live.ID)
	assert.NoError(t, err)
}

func TestTaskStoreCRUD(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	u := createUser(t, s, "ada@example.com")

	due, err := tasks.ParseDate("2025-04-01")
	require.NoError(t, err)

	created, err := s.Tasks.Create(ctx, u.ID, tasks.Input{
		Title:       "Buy milk",
		Description: strPtr("Two litres"),
		DueDate:     &due,
		Status:      tasks.StatusPending,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, u.ID, created.UserID)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-04-01", created.DueDate.String())
	assert.Equal(t, "Two litres", *created.Description)

	found, err := s.Tasks.FindByOwner(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)

	updated, err := s.Tasks.Update(ctx, u.ID, created.ID, tasks.Input{Title: "Buy bread", Status: tasks.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", updated.Title)
	assert.Equal(t, tasks.StatusCompleted, updated.Status)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, s.Tasks.Delete(ctx, u.ID, created.ID))
	_, err = s.Tasks.FindByOwner(ctx, u.ID, created.ID)
	assert.ErrorIs(t, err, tasks.ErrNotFound)
	assert.ErrorIs(t, s.Tasks.Delete(ctx, u.ID, created.ID), tasks.ErrNotFound)
}

func TestTaskStoreScopesByOwner(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice@example.com")
	bob := createUser(t, s, "bob@example.com")

	task, err := s.Tasks.Create(ctx, alice.ID, tasks.Input{Title: "Private", Status: tasks.StatusPending})
	require.NoError(t, err)

	_, err = s.Tasks.FindByOwner(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, tasks.ErrNotFound)
	_, err = s.Tasks.Update(ctx, bob.ID, task.ID, tasks.Input{Title: "Mine now", Status: tasks.StatusCompleted})
	assert.ErrorIs(t, err, tasks.ErrNotFound)
	assert.ErrorIs(t, s.Tasks.Delete(ctx, bob.ID, task.ID), tasks.ErrNotFound)

	list, err := s.Tasks.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	still, err := s.Tasks.FindByOwner(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", still.Title)
}

func TestTaskStoreListsNewestFirst(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	u := createUser(t, s, "ada@example.com")

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		task, err := s.Tasks.Create(ctx, u.ID, tasks.Input{Title: title, Status: tasks.StatusPending})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	list, err := s.Tasks.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestTasksDeletedWithOwner(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	u := createUser(t, s, "ada@example.com")

	_, err := s.Tasks.Create(ctx, u.ID, tasks.Input{Title: "Orphan", Status: tasks.StatusPending})
	require.NoError(t, err)

	sqlDB := s.Users.db
	_, err = sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID)
	require.NoError(t, err)

	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Zero(t, count)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 4, 1, 9, 30, 0, 123000000, time.UTC)
	for _, v := range []any{want, formatTime(want), []byte(formatTime(want))} {
		got, err := parseTime(v)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "%v", v)
	}
	_, err := parseTime(42)
	assert.Error(t, err)
}
