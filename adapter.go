package main

import (
	"database/sql"
	"fmt"
)

// DBAdapter defines the contract for database-specific behavior.
// Each supported database (MySQL, PostgreSQL, SQLite) implements this interface.
type DBAdapter interface {
	// DriverName returns the database/sql driver name (e.g., "mysql", "postgres", "sqlite").
	DriverName() string

	// URIScheme returns the resource URI scheme (e.g., "mysql", "postgres", "sqlite").
	URIScheme() string

	// DefaultPort returns the conventional TCP port, or 0 when the
	// database is not network-addressed.
	DefaultPort() int

	// MissingConfig returns the names of required environment variables
	// that are absent from the given configuration.
	MissingConfig(cfg *Config) []string

	// FormatDSN constructs a driver DSN from the configuration.
	FormatDSN(cfg *Config) string

	// DatabaseLabel returns the database name used in resource URIs.
	DatabaseLabel(cfg *Config) string

	// ListTablesQuery returns the SQL query and arguments to list all tables.
	ListTablesQuery(databaseName string) (string, []any)

	// ReadSchemaQuery returns the SQL query and arguments to read column info for a table.
	ReadSchemaQuery(databaseName, tableName string) (string, []any)

	// ScanSchemaRow scans a single row from the schema query result into a column map.
	ScanSchemaRow(rows *sql.Rows) (map[string]any, error)
}

// AdapterFor returns the adapter for a driver name. An empty name selects
// MySQL, the primary backend.
func AdapterFor(driver string) (DBAdapter, error) {
	switch driver {
	case "", "mysql":
		return &MySQLAdapter{}, nil
	case "postgres":
		return &PostgresAdapter{}, nil
	case "sqlite":
		return &SQLiteAdapter{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q (expected mysql, postgres, or sqlite)", driver)
	}
}
