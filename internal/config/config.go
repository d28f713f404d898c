// ===============================
// internal/config/config.go - Application configuration
// ===============================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
)

// R2Config holds Cloudflare R2 configuration
type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

// Enabled reports whether enough is set to talk to R2.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != ""
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Environment string
	Port        string

	// Store configuration
	StoreBackend string
	DatabaseURL  string

	// Firebase configuration
	FirebaseProjectID   string
	FirebaseCredentials string // Path to service account JSON file

	// R2 Storage configuration, optional
	R2Config R2Config

	// CORS configuration
	AllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Watch screen
	RelatedLimit int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Environment:         getEnv("GIN_MODE", "debug"),
		Port:                getEnv("PORT", "8080"),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendFirestore)),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
		R2Config: R2Config{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", "gaddiyalibe"),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
	}

	// Fall back to the bucket endpoint when no public domain is set
	if config.R2Config.PublicURL == "" && config.R2Config.AccountID != "" && config.R2Config.BucketName != "" {
		config.R2Config.PublicURL = fmt.Sprintf("https://%s.%s.r2.cloudflarestorage.com",
			config.R2Config.BucketName, config.R2Config.AccountID)
	}

	// Parse allowed origins
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, origin := range strings.Split(originsStr, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.AllowedOrigins = append(config.AllowedOrigins, origin)
		}
	}

	relatedLimit, err := strconv.Atoi(getEnv("RELATED_LIMIT", "6"))
	if err != nil || relatedLimit <= 0 {
		return nil, ErrInvalidRelatedLimit
	}
	config.RelatedLimit = relatedLimit

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings the chosen backend depends on.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return ErrMissingFirebaseConfig
		}
	case BackendPostgres, BackendSQLite:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ConfigError{Message: fmt.Sprintf("unknown STORE_BACKEND %q (want firestore, postgres or sqlite)", c.StoreBackend)}
	}
	return nil
}

// UsesSQL reports whether the store lives in a SQL database.
func (c *Config) UsesSQL() bool {
	return c.StoreBackend == BackendPostgres || c.StoreBackend == BackendSQLite
}

// AuthEnabled reports whether Firebase can verify tokens.
func (c *Config) AuthEnabled() bool {
	return c.FirebaseProjectID != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Configuration errors
var (
	ErrMissingDatabaseURL    = ConfigError{Message: "DATABASE_URL environment variable is required for SQL store backends"}
	ErrMissingFirebaseConfig = ConfigError{Message: "FIREBASE_PROJECT_ID is required for the firestore store backend"}
	ErrInvalidRelatedLimit   = ConfigError{Message: "RELATED_LIMIT must be a positive integer"}
)

// ConfigError represents a configuration error
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
