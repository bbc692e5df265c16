package migrations

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var identifierRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// validateIdentifier ensures an identifier contains only safe characters for SQL.
// Returns an error if the identifier contains characters that could be used for SQL injection.
func validateIdentifier(name, fieldName string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("%s must start with a letter and contain only letters, numbers, and underscores (got: %s)", fieldName, name)
	}
	return nil
}

// validateConfig validates all configuration values to prevent SQL injection.
func validateConfig(config *Config) error {
	if err := validateIdentifier(config.SchemaName, "SchemaName"); err != nil {
		return err
	}
	if err := validateIdentifier(config.LegacyTable, "LegacyTable"); err != nil {
		return err
	}
	if err := validateIdentifier(config.RecordsTable, "RecordsTable"); err != nil {
		return err
	}
	return nil
}

// Config configures migration generation for the record migration tables.
type Config struct {
	// OutputFolder is the directory where the migration file will be written
	OutputFolder string

	// OutputFilename is the name of the migration file
	OutputFilename string

	// SchemaName is the database schema name (PostgreSQL) or database name (MySQL)
	// For SQLite, table name prefixes are used instead of schemas (e.g., recordpipe_table_name)
	SchemaName string

	// LegacyTable is the name of the legacy recovery token table
	LegacyTable string

	// RecordsTable is the name of the destination records table
	RecordsTable string
}

// DefaultConfig returns the default configuration for record migration tables.
func DefaultConfig() Config {
	timestamp := time.Now().Format("20060102150405")
	return Config{
		OutputFolder:   "migrations",
		OutputFilename: fmt.Sprintf("%s_init_recovery_tokens.sql", timestamp),
		SchemaName:     "recordpipe",
		LegacyTable:    "legacy_recovery_tokens",
		RecordsTable:   "recovery_tokens",
	}
}

// GeneratePostgres generates a PostgreSQL migration file.
func GeneratePostgres(config *Config) error {
	// Validate configuration to prevent SQL injection
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure output folder exists
	if err := os.MkdirAll(config.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	sql := generatePostgresSQL(config)

	outputPath := filepath.Join(config.OutputFolder, config.OutputFilename)
	if err := os.WriteFile(outputPath, []byte(sql), 0o600); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}

	return nil
}

func generatePostgresSQL(config *Config) string {
	return fmt.Sprintf(`-- Recovery Token Migration Tables
-- Generated: %s
-- Database: PostgreSQL

-- Create schema for migration tables
CREATE SCHEMA IF NOT EXISTS %s;

-- Legacy recovery token table, keyed by the old scheme
-- The serial id doubles as the keyspace for segmented parallel scans
CREATE TABLE IF NOT EXISTS %s.%s (
    id BIGSERIAL PRIMARY KEY,
    record_key TEXT NOT NULL UNIQUE,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL
);

-- Destination records table, keyed by record_key
-- The primary key makes migration inserts idempotent via ON CONFLICT DO NOTHING
CREATE TABLE IF NOT EXISTS %s.%s (
    record_key TEXT PRIMARY KEY,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL,
    migrated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Index for expiry-based cleanup of migrated records
CREATE INDEX IF NOT EXISTS idx_%s_expires
    ON %s.%s (expires_at);
`,
		time.Now().Format(time.RFC3339),
		config.SchemaName,
		config.SchemaName, config.LegacyTable,
		config.SchemaName, config.RecordsTable,
		config.RecordsTable, config.SchemaName, config.RecordsTable,
	)
}

// GenerateMySQL generates a MySQL/MariaDB migration file.
func GenerateMySQL(config *Config) error {
	// Validate configuration to prevent SQL injection
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure output folder exists
	if err := os.MkdirAll(config.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	sql := generateMySQLSQL(config)

	outputPath := filepath.Join(config.OutputFolder, config.OutputFilename)
	if err := os.WriteFile(outputPath, []byte(sql), 0o600); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}

	return nil
}

func generateMySQLSQL(config *Config) string {
	return fmt.Sprintf(`-- Recovery Token Migration Tables
-- Generated: %s
-- Database: MySQL/MariaDB

-- Create database for migration tables if it doesn't exist
-- In MySQL, we use a separate database instead of schema
CREATE DATABASE IF NOT EXISTS %s
    DEFAULT CHARACTER SET utf8mb4
    DEFAULT COLLATE utf8mb4_unicode_ci;

-- Switch to the migration database
USE %s;

-- Legacy recovery token table, keyed by the old scheme
-- The auto-increment id doubles as the keyspace for segmented parallel scans
CREATE TABLE IF NOT EXISTS %s (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    record_key VARCHAR(255) NOT NULL UNIQUE,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

-- Destination records table, keyed by record_key
-- The primary key makes migration inserts idempotent
CREATE TABLE IF NOT EXISTS %s (
    record_key VARCHAR(255) PRIMARY KEY,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL,
    migrated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

-- Index for expiry-based cleanup of migrated records
CREATE INDEX idx_%s_expires
    ON %s (expires_at);
`,
		time.Now().Format(time.RFC3339),
		config.SchemaName,
		config.SchemaName,
		config.LegacyTable,
		config.RecordsTable,
		config.RecordsTable, config.RecordsTable,
	)
}

// GenerateSQLite generates a SQLite migration file.
func GenerateSQLite(config *Config) error {
	// Validate configuration to prevent SQL injection
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure output folder exists
	if err := os.MkdirAll(config.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	sql := generateSQLiteSQL(config)

	outputPath := filepath.Join(config.OutputFolder, config.OutputFilename)
	if err := os.WriteFile(outputPath, []byte(sql), 0o600); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}

	return nil
}

func generateSQLiteSQL(config *Config) string {
	// SQLite doesn't support schemas, so we use table name prefixes instead
	legacyTable := config.SchemaName + "_" + config.LegacyTable
	recordsTable := config.SchemaName + "_" + config.RecordsTable

	return fmt.Sprintf(`-- Recovery Token Migration Tables
-- Generated: %s
-- Database: SQLite

-- Legacy recovery token table, keyed by the old scheme
-- The rowid alias doubles as the keyspace for segmented parallel scans
CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_key TEXT NOT NULL UNIQUE,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

-- Destination records table, keyed by record_key
-- The primary key makes migration inserts idempotent via INSERT OR IGNORE
CREATE TABLE IF NOT EXISTS %s (
    record_key TEXT PRIMARY KEY,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at INTEGER NOT NULL,
    migrated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Index for expiry-based cleanup of migrated records
CREATE INDEX IF NOT EXISTS idx_%s_expires
    ON %s (expires_at);
`,
		time.Now().Format(time.RFC3339),
		legacyTable,
		recordsTable,
		recordsTable, recordsTable,
	)
}
