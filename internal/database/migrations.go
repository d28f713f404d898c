// ===============================
// internal/database/migrations.go - Document table schema
// ===============================

package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Migration struct {
	Version    string
	Statements []string
}

// Documents are stored as JSON blobs keyed by (collection, id). The seq column
// preserves insertion order, which is the store's default ordering.
var postgresMigrations = []Migration{
	{
		Version: "001_documents",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS documents (
				seq BIGSERIAL UNIQUE,
				collection VARCHAR(64) NOT NULL,
				id VARCHAR(255) NOT NULL,
				fields JSONB NOT NULL DEFAULT '{}'::jsonb,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (collection, id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_collection_seq ON documents(collection, seq)`,
		},
	},
	{
		Version: "002_comments_episode_index",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_documents_comments_episode
				ON documents ((fields->>'episodeId')) WHERE collection = 'comments'`,
		},
	},
}

var sqliteMigrations = []Migration{
	{
		Version: "001_documents",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS documents (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				collection TEXT NOT NULL,
				id TEXT NOT NULL,
				fields TEXT NOT NULL DEFAULT '{}',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (collection, id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_collection_seq ON documents(collection, seq)`,
		},
	},
	{
		Version: "002_comments_episode_index",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_documents_comments_episode
				ON documents (json_extract(fields, '$.episodeId')) WHERE collection = 'comments'`,
		},
	},
}

// RunMigrations applies every migration for the connection's driver once.
func RunMigrations(db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	migrations, err := migrationsFor(db.DriverName())
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range migrations {
		if err := applyMigration(db, migration, logger); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}
	}

	logger.Info("migrations completed", zap.Int("count", len(migrations)))
	return nil
}

func migrationsFor(driver string) ([]Migration, error) {
	switch driver {
	case DriverPostgres:
		return postgresMigrations, nil
	case DriverSQLite:
		return sqliteMigrations, nil
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

func applyMigration(db *sqlx.DB, migration Migration, logger *zap.Logger) error {
	var count int
	err := db.QueryRow(db.Rebind("SELECT COUNT(*) FROM migrations WHERE version = ?"), migration.Version).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if count > 0 {
		logger.Debug("migration already applied", zap.String("version", migration.Version))
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range migration.Statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	if _, err := tx.Exec(tx.Rebind("INSERT INTO migrations (version) VALUES (?)"), migration.Version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Version, err)
	}

	logger.Info("migration applied", zap.String("version", migration.Version))
	return nil
}

// AppliedMigration is a row of the migrations table.
type AppliedMigration struct {
	Version   string `db:"version"`
	AppliedAt string `db:"applied_at"`
}

// AppliedMigrations lists recorded migrations in version order.
func AppliedMigrations(db *sqlx.DB) ([]AppliedMigration, error) {
	applied := []AppliedMigration{}
	if err := db.Select(&applied, "SELECT version, applied_at FROM migrations ORDER BY version"); err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	return applied, nil
}
