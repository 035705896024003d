package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations holds the ordered schema migrations. Version N is migrations[N-1].
// Never edit an applied migration; append a new one.
var migrations = []string{
	// v1: initial schema — credentials, the single content document, and the
	// append-only contact message log.
	`
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS content_document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		attachment TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_message_created_at ON message(created_at DESC);
	`,
}

// LatestSchemaVersion returns the schema version the binary expects.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB brings the database schema up to the latest version.
// Each pending migration runs in its own transaction together with the
// version bump, so a failed migration leaves the recorded version untouched.
// PRE: db is a valid connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := schemaVersion(db)
	if err != nil {
		return err
	}

	for v := current + 1; v <= len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", v, err)
		}
		if _, err := tx.Exec(migrations[v-1]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v, err)
		}
		if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d version clear failed: %w", v, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d version bump failed: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit failed: %w", v, err)
		}
		slog.Info("schema_migrated", "db", dbPath, "version", v)
	}

	return nil
}

// schemaVersion reads the currently recorded schema version (0 if none).
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
