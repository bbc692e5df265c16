package postgres

// TableConfig holds the table names used by the store.
type TableConfig struct {
	// LegacyTable is the table holding legacy-keyed recovery token records.
	LegacyTable string

	// RecordsTable is the destination table for migrated records.
	RecordsTable string
}

// DefaultTableConfig returns the default table names.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		LegacyTable:  "legacy_recovery_tokens",
		RecordsTable: "recovery_tokens",
	}
}
