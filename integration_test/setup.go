//go:build integration

package integration

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"

	pgstore "github.com/stashkeep/recordpipe/store/postgres"
)

// getTestDB returns a database connection for integration tests.
// It reads the DATABASE_URL environment variable and skips the test if not set.
func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	return db
}

// setupTables creates the migration tables using the default configuration.
func setupTables(t *testing.T, db *sql.DB) {
	t.Helper()

	config := pgstore.DefaultTableConfig()
	migrationSQL := pgstore.MigrationUp(config)

	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
}

// cleanupTables truncates the migration tables to clean up test data.
// Errors are logged but don't fail the test (cleanup is best-effort).
func cleanupTables(t *testing.T, db *sql.DB) {
	t.Helper()

	config := pgstore.DefaultTableConfig()

	_, err := db.Exec("TRUNCATE " + config.RecordsTable)
	if err != nil {
		t.Logf("warning: failed to truncate records table: %v", err)
	}

	_, err = db.Exec("TRUNCATE " + config.LegacyTable + " RESTART IDENTITY")
	if err != nil {
		t.Logf("warning: failed to truncate legacy table: %v", err)
	}
}

// teardownTables drops the migration tables using the default configuration.
// Errors are logged but don't fail the test.
func teardownTables(t *testing.T, db *sql.DB) {
	t.Helper()

	config := pgstore.DefaultTableConfig()
	migrationSQL := pgstore.MigrationDown(config)

	if _, err := db.Exec(migrationSQL); err != nil {
		t.Logf("warning: failed to drop tables: %v", err)
	}
}

// seedLegacyRecords inserts n synthetic rows into the legacy table.
func seedLegacyRecords(t *testing.T, db *sql.DB, n int) {
	t.Helper()

	config := pgstore.DefaultTableConfig()
	for i := range n {
		_, err := db.Exec(
			"INSERT INTO "+config.LegacyTable+" (record_key, token_hash, token_salt, expires_at) VALUES ($1, $2, $3, $4)",
			fmt.Sprintf("key-%05d", i),
			fmt.Sprintf("hash-%05d", i),
			fmt.Sprintf("salt-%05d", i),
			int64(2000+i),
		)
		if err != nil {
			t.Fatalf("failed to seed legacy record %d: %v", i, err)
		}
	}
}

// countRecords returns the number of rows in the destination records table.
func countRecords(t *testing.T, db *sql.DB) int {
	t.Helper()

	config := pgstore.DefaultTableConfig()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + config.RecordsTable).Scan(&count); err != nil {
		t.Fatalf("failed to count records: %v", err)
	}
	return count
}
