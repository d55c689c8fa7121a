// Package db provides database connectivity for the TaskMaster server:
// the Postgres connection pool, the embedded schema migrations, and the
// embedded SQLite database used for single-binary deployments and tests.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver
	_ "modernc.org/sqlite"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

//go:embed sqlite_schema.sql
var sqliteSchema string

// NewPool establishes the Postgres connection pool and verifies it with a ping.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(getDSN(cfg))
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", cfg.DBName), err)
	}

	return pool, nil
}

func getDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies every pending migration embedded in the binary.
// Files follow golang-migrate naming: {version}_{description}.{up|down}.sql.
func RunMigrations(cfg *config.PoolConfig) error {
	return runMigrations(getDSN(cfg))
}

// RunMigrationsURL is RunMigrations for an already assembled connection URL.
func RunMigrationsURL(databaseURL string) error {
	return runMigrations(databaseURL)
}

func runMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("Warning: error closing migrator: source=%v database=%v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies the schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, apperror.NewConfigError("sqlite path is required", nil)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to open sqlite database", err)
	}
	// One connection: the schema's PRAGMA is per connection and an in-memory
	// database exists only inside the connection that created it.
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, apperror.NewMigrationError("failed to apply sqlite schema", err)
	}

	return sqlDB, nil
}
