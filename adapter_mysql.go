package main

import (
	"database/sql"
	"fmt"
)

// MySQLAdapter implements DBAdapter for MySQL databases.
type MySQLAdapter struct{}

func (a *MySQLAdapter) DriverName() string { return "mysql" }
func (a *MySQLAdapter) URIScheme() string  { return "mysql" }
func (a *MySQLAdapter) DefaultPort() int   { return 3306 }

func (a *MySQLAdapter) MissingConfig(cfg *Config) []string {
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

func (a *MySQLAdapter) FormatDSN(cfg *Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

func (a *MySQLAdapter) DatabaseLabel(cfg *Config) string {
	return cfg.Database
}

func (a *MySQLAdapter) ListTablesQuery(databaseName string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = ?`,
		[]any{databaseName}
}

func (a *MySQLAdapter) ReadSchemaQuery(databaseName, tableName string) (string, []any) {
	return `SELECT column_name, data_type, is_nullable, column_key, column_default, extra
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`, []any{databaseName, tableName}
}

func (a *MySQLAdapter) ScanSchemaRow(rows *sql.Rows) (map[string]any, error) {
	var colName, dataType, isNullable, colKey string
	var colDefault, extra sql.NullString

	if err := rows.Scan(&colName, &dataType, &isNullable, &colKey, &colDefault, &extra); err != nil {
		return nil, err
	}

	col := map[string]any{
		"column_name": colName,
		"data_type":   dataType,
		"is_nullable": isNullable,
		"column_key":  colKey,
	}
	if colDefault.Valid {
		col["column_default"] = colDefault.String
	}
	if extra.Valid && extra.String != "" {
		col["extra"] = extra.String
	}
	return col, nil
}
