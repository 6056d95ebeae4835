package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// Gateway executes single statements against the database. Connections
// are deliberately not pooled: every call opens its own connection and
// closes it on every exit path, so invocations share no mutable state.
type Gateway struct {
	driver  string
	dsn     string
	maxRows int
	logger  *zap.Logger
}

func NewGateway(adapter DBAdapter, cfg *Config, logger *zap.Logger) *Gateway {
	return &Gateway{
		driver:  adapter.DriverName(),
		dsn:     adapter.FormatDSN(cfg),
		maxRows: cfg.MaxRows,
		logger:  logger,
	}
}

func textResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: text}},
	}
}

func errorResult(format string, args ...any) *CallToolResult {
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// ExecuteRead runs one read statement and serializes the row set to JSON.
// Failures never escape as errors; every outcome is a CallToolResult.
func (g *Gateway) ExecuteRead(ctx context.Context, query string) *CallToolResult {
	g.logger.Debug("executing read statement", zap.String("driver", g.driver))

	db, err := sql.Open(g.driver, g.dsn)
	if err != nil {
		g.logger.Warn("failed to open database", zap.Error(err))
		return errorResult("Query error: %v", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		g.logger.Warn("read statement failed", zap.Error(err))
		return errorResult("Query error: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return errorResult("Query error: failed to get columns: %v", err)
	}

	var results []map[string]any
	rowCount := 0
	for rows.Next() {
		if rowCount >= g.maxRows {
			results = append(results, map[string]any{
				"_warning": fmt.Sprintf("Result truncated at %d rows", g.maxRows),
			})
			break
		}

		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return errorResult("Query error: failed to scan row %d: %v", rowCount+1, err)
		}

		row := make(map[string]any)
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		results = append(results, row)
		rowCount++
	}

	if err := rows.Err(); err != nil {
		return errorResult("Query error: %v", err)
	}

	resultJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errorResult("Query error: failed to marshal results: %v", err)
	}

	g.logger.Debug("read statement completed", zap.Int("rows", rowCount))
	return textResult(string(resultJSON))
}

// ExecuteWrite runs one write statement and reports a confirmation
// message. The insert ID clause is omitted when the driver reports no
// generated identifier (zero, or an error as with PostgreSQL).
func (g *Gateway) ExecuteWrite(ctx context.Context, stmt string, op WriteOp) *CallToolResult {
	g.logger.Debug("executing write statement",
		zap.String("driver", g.driver),
		zap.String("operation", string(op)),
	)

	db, err := sql.Open(g.driver, g.dsn)
	if err != nil {
		g.logger.Warn("failed to open database", zap.Error(err))
		return errorResult("%s error: %v", op.Keyword(), err)
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, stmt)
	if err != nil {
		g.logger.Warn("write statement failed",
			zap.String("operation", string(op)),
			zap.Error(err),
		)
		return errorResult("%s error: %v", op.Keyword(), err)
	}

	msg := fmt.Sprintf("%s successful.", op.Keyword())
	if affected, err := result.RowsAffected(); err == nil {
		msg += fmt.Sprintf(" Affected rows: %d.", affected)
	}
	if id, err := result.LastInsertId(); err == nil && id != 0 {
		msg += fmt.Sprintf(" Insert ID: %d.", id)
	}

	return textResult(msg)
}

// queryRows opens a transient connection, runs the query, and hands the
// row set to fn. Used by the schema resource handlers.
func (g *Gateway) queryRows(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	db, err := sql.Open(g.driver, g.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := fn(rows); err != nil {
		return err
	}
	return rows.Err()
}

// normalizeValue prepares a scanned column value for JSON serialization.
// []byte becomes string. uint64 values above the int64 range become their
// decimal string form: most JSON consumers read numbers as float64 and
// would corrupt the digits past 2^53.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case uint64:
		if val > math.MaxInt64 {
			return strconv.FormatUint(val, 10)
		}
		return val
	default:
		return v
	}
}
