// Package migrations provides SQL migration generation for the record
// migration tables. It generates schema migrations for the legacy recovery
// token table and the destination records table across PostgreSQL,
// MySQL/MariaDB, and SQLite databases.
package migrations
