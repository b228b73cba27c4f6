package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// migration applies one schema version step. Each must be idempotent
// (IF NOT EXISTS) so MigrateDB can recover databases that predate
// version tracking.
type migration struct {
	version int
	apply   func(db *sql.DB) error
}

// migrations is the ordered chain of schema versions.
var migrations = []migration{
	{version: 1, apply: migrateV1Baseline},
}

// migrateV1Baseline creates the baseline schema: per-type entity selection
// slots and local development identity accounts.
func migrateV1Baseline(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS selection (
		account_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (account_id, entity_type)
	);

	CREATE TABLE IF NOT EXISTS dev_account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the current schema version from the database.
// POST: Returns 0 for a database with no version tracking yet
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("checking schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database schema to the latest version.
// PRE: db is a valid open connection
// POST: Schema is at LatestSchemaVersion(); safe to call repeatedly
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL DEFAULT (datetime('now')))"); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("applying migration %d to %s: %w", m.version, dbPath, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version, "db", dbPath)
	}
	return nil
}
