package main

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
)

// SQLiteAdapter implements DBAdapter for SQLite databases. The database
// name is the file path; host, user, and password are unused.
type SQLiteAdapter struct{}

func (a *SQLiteAdapter) DriverName() string { return "sqlite" }
func (a *SQLiteAdapter) URIScheme() string  { return "sqlite" }
func (a *SQLiteAdapter) DefaultPort() int   { return 0 }

func (a *SQLiteAdapter) MissingConfig(cfg *Config) []string {
	if cfg.Database == "" {
		return []string{EnvDatabase}
	}
	return nil
}

func (a *SQLiteAdapter) FormatDSN(cfg *Config) string {
	return cfg.Database
}

// DatabaseLabel derives a short name from the file path for resource
// URIs, so a path like /var/data/app.db labels as "app".
func (a *SQLiteAdapter) DatabaseLabel(cfg *Config) string {
	name := filepath.Base(cfg.Database)
	name = strings.TrimSuffix(name, ".db")
	name = strings.TrimSuffix(name, ".sqlite")
	name = strings.TrimSuffix(name, ".sqlite3")
	return name
}

func (a *SQLiteAdapter) ListTablesQuery(databaseName string) (string, []any) {
	// SQLite has no information_schema. Use sqlite_master.
	// databaseName is ignored (SQLite has one DB per file).
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
		nil
}

func (a *SQLiteAdapter) ReadSchemaQuery(databaseName, tableName string) (string, []any) {
	// PRAGMA table_info cannot use ? placeholders, so we embed the table name safely.
	return fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(tableName, "'", "''")),
		nil
}

func (a *SQLiteAdapter) ScanSchemaRow(rows *sql.Rows) (map[string]any, error) {
	// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
	var cid int
	var name, colType string
	var notNull, pk int
	var dfltValue sql.NullString

	if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
		return nil, err
	}

	isNullable := "YES"
	if notNull == 1 {
		isNullable = "NO"
	}

	col := map[string]any{
		"column_name": name,
		"data_type":   colType,
		"is_nullable": isNullable,
	}
	if pk > 0 {
		col["column_key"] = "PRI"
	}
	if dfltValue.Valid {
		col["column_default"] = dfltValue.String
	}
	return col, nil
}
