// Package postgres implements the user, token and task stores on a pgx
// connection pool created by db.NewPool.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Stores groups the three stores sharing one pool.
type Stores struct {
	Users  *UserStore
	Tokens *TokenStore
	Tasks  *TaskStore
}

// New returns every store backed by pool.
func New(pool *pgxpool.Pool) *Stores {
	return &Stores{
		Users:  NewUserStore(pool),
		Tokens: NewTokenStore(pool),
		Tasks:  NewTaskStore(pool),
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}
