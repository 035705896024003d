package storage

import (
	"database/sql"
	"reflect"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
// Pool size is pinned to 1 so every query sees the same in-memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"account",
	"content_document",
	"message",
	"schema_version",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	if got := getTableNames(t, db); !reflect.DeepEqual(got, expectedTables) {
		t.Errorf("tables = %v, want %v", got, expectedTables)
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no
// errors and no schema drift.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	first := getTableNames(t, db)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
	second := getTableNames(t, db)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("schema drifted between runs: %v vs %v", first, second)
	}
}

// TestContentDocument_SingleRow verifies the CHECK constraint pinning the
// content document to one row.
func TestContentDocument_SingleRow(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO content_document (id, body, updated_at) VALUES (1, '{}', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert row 1 failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO content_document (id, body, updated_at) VALUES (2, '{}', '2024-01-01T00:00:00Z')`); err == nil {
		t.Error("second document row should violate the CHECK constraint")
	}
}
