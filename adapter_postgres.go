package main

import (
	"database/sql"
	"fmt"
	"net/url"
)

// PostgresAdapter implements DBAdapter for PostgreSQL databases.
type PostgresAdapter struct{}

func (a *PostgresAdapter) DriverName() string { return "postgres" }
func (a *PostgresAdapter) URIScheme() string  { return "postgres" }
func (a *PostgresAdapter) DefaultPort() int   { return 5432 }

func (a *PostgresAdapter) MissingConfig(cfg *Config) []string {
	var missing []string
	if cfg.Host == "" {
		missing = append(missing, EnvHost)
	}
	if cfg.User == "" {
		missing = append(missing, EnvUser)
	}
	if cfg.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if cfg.Database == "" {
		missing = append(missing, EnvDatabase)
	}
	return missing
}

func (a *PostgresAdapter) FormatDSN(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=prefer",
		url.PathEscape(cfg.User), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Database)
}

func (a *PostgresAdapter) DatabaseLabel(cfg *Config) string {
	return cfg.Database
}

func (a *PostgresAdapter) ListTablesQuery(databaseName string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_catalog = $1`,
		[]any{databaseName}
}

func (a *PostgresAdapter) ReadSchemaQuery(databaseName, tableName string) (string, []any) {
	return `SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_catalog = $1 AND table_schema = 'public' AND table_name = $2
		ORDER BY ordinal_position`, []any{databaseName, tableName}
}

func (a *PostgresAdapter) ScanSchemaRow(rows *sql.Rows) (map[string]any, error) {
	var colName, dataType, isNullable string
	var colDefault sql.NullString

	if err := rows.Scan(&colName, &dataType, &isNullable, &colDefault); err != nil {
		return nil, err
	}

	col := map[string]any{
		"column_name": colName,
		"data_type":   dataType,
		"is_nullable": isNullable,
	}
	if colDefault.Valid {
		col["column_default"] = colDefault.String
	}
	return col, nil
}
