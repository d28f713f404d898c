package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GIN_MODE", "PORT", "STORE_BACKEND", "DATABASE_URL",
		"FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY", "R2_SECRET_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL",
		"ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "RELATED_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSQLiteDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("DATABASE_URL", "file:catalog.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.True(t, cfg.UsesSQL())
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 6, cfg.RelatedLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.R2Config.Enabled())
}

func TestLoadFirestoreRequiresProject(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingFirebaseConfig)

	t.Setenv("FIREBASE_PROJECT_ID", "podcast-prod")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.True(t, cfg.AuthEnabled())
	assert.False(t, cfg.UsesSQL())
}

func TestLoadSQLRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()
	var cfgErr ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Message, "mongo")
}

func TestLoadRelatedLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_PROJECT_ID", "p")

	t.Setenv("RELATED_LIMIT", "4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.RelatedLimit)

	for _, bad := range []string{"0", "-1", "six"} {
		t.Setenv("RELATED_LIMIT", bad)
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidRelatedLimit, bad)
	}
}

func TestLoadR2AndOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREBASE_PROJECT_ID", "p")
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY", "key")
	t.Setenv("R2_SECRET_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.R2Config.Enabled())
	assert.Equal(t, "https://gaddiyalibe.acct.r2.cloudflarestorage.com", cfg.R2Config.PublicURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)

	t.Setenv("R2_PUBLIC_URL", "https://media.example.com")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com", cfg.R2Config.PublicURL)
}
