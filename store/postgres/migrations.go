package postgres

import "fmt"

// MigrationUp returns the SQL to create the legacy and destination tables.
// The legacy table carries a serial id used as the scan keyspace; the
// destination table is keyed by record_key so migration inserts are
// idempotent via ON CONFLICT DO NOTHING.
func MigrationUp(config TableConfig) string {
	return fmt.Sprintf(`-- Create legacy recovery token table
CREATE TABLE IF NOT EXISTS %s (
    id BIGSERIAL PRIMARY KEY,
    record_key TEXT NOT NULL UNIQUE,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL
);

-- Create destination recovery token table
CREATE TABLE IF NOT EXISTS %s (
    record_key TEXT PRIMARY KEY,
    token_hash TEXT NOT NULL,
    token_salt TEXT NOT NULL,
    expires_at BIGINT NOT NULL,
    migrated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Index for expiry-based cleanup of migrated records
CREATE INDEX IF NOT EXISTS idx_%s_expires ON %s(expires_at);
`, config.LegacyTable, config.RecordsTable, config.RecordsTable, config.RecordsTable)
}

// MigrationDown returns the SQL to drop both tables.
func MigrationDown(config TableConfig) string {
	return fmt.Sprintf(`-- Drop destination recovery token table
DROP TABLE IF EXISTS %s;

-- Drop legacy recovery token table
DROP TABLE IF EXISTS %s;
`, config.RecordsTable, config.LegacyTable)
}
