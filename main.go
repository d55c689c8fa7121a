// The TaskMaster API server. By default it loads the configuration, opens
// the configured storage backend, builds the router and serves it until
// SIGINT or SIGTERM, then shuts down gracefully. The migrate and
// prune-tokens subcommands run one-shot maintenance and exit.
//
// @title TaskMaster API
// @version 1.0
// @description Personal task management API: accounts, bearer tokens and owner-scoped tasks.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/taskmaster-go/config"
	"github.com/user/taskmaster-go/db"
	"github.com/user/taskmaster-go/maintenance"
	"github.com/user/taskmaster-go/server"
	"github.com/user/taskmaster-go/storage/postgres"
	"github.com/user/taskmaster-go/storage/sqlite"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	app := &cli.App{
		Name:   "taskmaster",
		Usage:  "TaskMaster API server",
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API (default)", Action: serve},
			{Name: "migrate", Usage: "apply database migrations and exit", Action: migrateOnly},
			{Name: "prune-tokens", Usage: "delete expired bearer tokens and exit", Action: pruneTokens},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, closer, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closer.Close()

	deps.Auth = *cfg.Auth
	deps.Server = *cfg.Server

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (storage: %s)", addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}

// migrateOnly applies the schema of the configured backend.
func migrateOnly(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == config.DriverSQLite {
		sqlDB, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		log.Printf("SQLite schema ensured at %s", cfg.Storage.SQLitePath)
		return sqlDB.Close()
	}
	if err := db.RunMigrations(cfg.Storage.Postgres); err != nil {
		return err
	}
	log.Println("Database migrations applied")
	return nil
}

func pruneTokens(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	deps, closer, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closer.Close()

	deleter, ok := deps.Tokens.(maintenance.ExpiredTokenDeleter)
	if !ok {
		return fmt.Errorf("storage driver %q cannot prune tokens", cfg.Storage.Driver)
	}
	n, err := maintenance.PruneExpiredTokens(c.Context, deleter, time.Now())
	if err != nil {
		return err
	}
	log.Printf("Deleted %d expired tokens", n)
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openStorage connects the configured backend and returns the stores with
// a closer for the underlying connection.
func openStorage(cfg *config.AppConfig) (server.Deps, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return server.Deps{}, nil, err
		}
		stores := sqlite.New(sqlDB)
		log.Printf("Using SQLite database at %s", cfg.Storage.SQLitePath)
		return server.Deps{Users: stores.Users, Tokens: stores.Tokens, Tasks: stores.Tasks}, sqlDB, nil

	default:
		if cfg.Storage.Migrate {
			if err := db.RunMigrations(cfg.Storage.Postgres); err != nil {
				return server.Deps{}, nil, err
			}
			log.Println("Database migrations applied")
		}
		pool, err := db.NewPool(cfg.Storage.Postgres)
		if err != nil {
			return server.Deps{}, nil, err
		}
		stores := postgres.New(pool)
		closer := closerFunc(func() error {
			pool.Close()
			return nil
		})
		return server.Deps{Users: stores.Users, Tokens: stores.Tokens, Tasks: stores.Tasks}, closer, nil
	}
}
