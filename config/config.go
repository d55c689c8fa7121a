// Package config loads the application configuration from environment
// variables. Missing or malformed variables are collected and reported
// together so that a misconfigured deployment fails once with the full list.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/taskmaster-go/apperror"
)

// Storage drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// PoolConfig represents configuration for the Postgres connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Driver     string // DriverPostgres or DriverSQLite
	Postgres   *PoolConfig
	SQLitePath string
	Migrate    bool // apply embedded migrations on startup (postgres only)
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret     string        // Secret key for signing tokens
	TokenDuration time.Duration // Lifetime of issued bearer tokens
	RateLimit     float64       // register/login requests per second per client IP
	RateBurst     int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Storage *StorageConfig
	Auth    *AuthConfig
	Server  *ServerConfig
}

func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvFloat(key string, defaultValue float64, errors *[]string) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected number, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return value
}

func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return value
}

// `time.ParseDuration` expects a string like "15m", "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size between 1 and 100.
func clampPoolSize(size int, errors *[]string) int {
	if size < 1 {
		*errors = append(*errors, fmt.Sprintf("DB_POOL_SIZE (%d) must be at least 1", size))
		return 1
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("DB_POOL_SIZE (%d) is greater than maximum 100", size))
		return 100
	}
	return size
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig builds an AppConfig from the environment.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	storage := &StorageConfig{
		Driver:     strings.ToLower(getOptionalEnv("STORAGE_DRIVER", DriverPostgres)),
		SQLitePath: getOptionalEnv("SQLITE_PATH", "taskmaster.db"),
		Migrate:    getOptionalEnvBool("DB_MIGRATE", true, &errors),
	}

	switch storage.Driver {
	case DriverPostgres:
		storage.Postgres = &PoolConfig{
			User:     getRequiredEnv("DB_USER", &errors),
			Password: getRequiredEnv("DB_PASSWORD", &errors),
			DBName:   getRequiredEnv("DB_NAME", &errors),
			Host:     getOptionalEnv("DB_HOST", "localhost"),
			Port:     getOptionalEnvInt("DB_PORT", 5432, &errors),
			MaxSize:  clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), &errors),
		}
	case DriverSQLite:
	default:
		errors = append(errors, fmt.Sprintf("invalid value for STORAGE_DRIVER: expected %q or %q, got %q", DriverPostgres, DriverSQLite, storage.Driver))
	}

	authConfig := &AuthConfig{
		JWTSecret:     getRequiredEnv("JWT_SECRET", &errors),
		TokenDuration: getOptionalEnvDuration("JWT_TOKEN_DURATION", 720*time.Hour, &errors), // 30 days
		RateLimit:     getOptionalEnvFloat("AUTH_RATE_LIMIT", 5, &errors),
		RateBurst:     getOptionalEnvInt("AUTH_RATE_BURST", 10, &errors),
	}
	if authConfig.TokenDuration <= 0 {
		errors = append(errors, "JWT_TOKEN_DURATION must be positive")
	}

	serverConfig := &ServerConfig{
		Port:           getOptionalEnv("PORT", "8080"),
		AllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout: getOptionalEnvDuration("REQUEST_TIMEOUT", 60*time.Second, &errors),
	}

	if len(errors) > 0 {
		return nil, apperror.NewConfigError(fmt.Sprintf("configuration errors:\n- %s", strings.Join(errors, "\n- ")), nil)
	}

	return &AppConfig{
		Storage: storage,
		Auth:    authConfig,
		Server:  serverConfig,
	}, nil
}
