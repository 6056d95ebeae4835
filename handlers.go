package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func (s *MCPServer) handleInitialize(params json.RawMessage) (*InitializeResult, *Error) {
	var initParams InitializeParams
	if params != nil {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &Error{
				Code:    InvalidParams,
				Message: "Invalid initialize parameters",
				Data:    err.Error(),
			}
		}
	}

	s.initialized = true
	s.logger.Info("client initialized",
		zap.String("client", initParams.ClientInfo.Name),
		zap.String("version", initParams.ClientInfo.Version),
	)

	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

func (s *MCPServer) handleListTools() (*ListToolsResult, *Error) {
	return &ListToolsResult{Tools: toolCatalog()}, nil
}

// parseSQLArgument validates the argument shape shared by all four tools:
// an object carrying a string field "sql". An empty string is well-formed
// here and left for the classifier to reject.
func parseSQLArgument(args map[string]any) (string, *Error) {
	raw, present := args["sql"]
	if !present {
		return "", &Error{
			Code:    InvalidParams,
			Message: "Missing 'sql' parameter",
		}
	}
	stmt, ok := raw.(string)
	if !ok {
		return "", &Error{
			Code:    InvalidParams,
			Message: "'sql' parameter must be a string",
		}
	}
	return stmt, nil
}

func (s *MCPServer) handleCallTool(params json.RawMessage) (*CallToolResult, *Error) {
	var callParams CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &Error{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    err.Error(),
		}
	}

	stmt, rpcErr := parseSQLArgument(callParams.Arguments)
	if rpcErr != nil {
		return nil, rpcErr
	}

	switch callParams.Name {
	case "query":
		if err := classifyRead(stmt); err != nil {
			return errorResult("Query rejected: %v", err), nil
		}
		return s.gateway.ExecuteRead(s.ctx, stmt), nil
	case "insert", "update", "delete":
		return s.dispatchWrite(stmt, WriteOp(callParams.Name)), nil
	default:
		return nil, &Error{
			Code:    MethodNotFound,
			Message: fmt.Sprintf("Unknown tool: %s", callParams.Name),
		}
	}
}

// dispatchWrite gates and classifies a write invocation. The gate is
// checked before the statement is ever inspected, so a disabled server
// reveals nothing about what it would have done with the statement.
func (s *MCPServer) dispatchWrite(stmt string, op WriteOp) *CallToolResult {
	if !s.cfg.AllowWrites {
		return errorResult("%s operations are disabled. Set %s=true to enable write operations.",
			op.Keyword(), EnvAllowWrites)
	}
	if err := classifyWrite(stmt, op); err != nil {
		return errorResult("%s rejected: %v", op.Keyword(), err)
	}
	return s.gateway.ExecuteWrite(s.ctx, stmt, op)
}

func (s *MCPServer) handleListResources() (*ListResourcesResult, *Error) {
	query, args := s.adapter.ListTablesQuery(s.cfg.Database)
	label := s.adapter.DatabaseLabel(s.cfg)

	resources := []Resource{}
	err := s.gateway.queryRows(s.ctx, query, args, func(rows *sql.Rows) error {
		for rows.Next() {
			var tableName string
			if err := rows.Scan(&tableName); err != nil {
				s.logger.Warn("failed to scan table name", zap.Error(err))
				continue
			}
			resources = append(resources, Resource{
				URI:      fmt.Sprintf("%s://%s/%s/schema", s.adapter.URIScheme(), label, tableName),
				Name:     fmt.Sprintf("Schema for table '%s'", tableName),
				MimeType: "application/json",
			})
		}
		return nil
	})
	if err != nil {
		return nil, &Error{
			Code:    InternalError,
			Message: fmt.Sprintf("Failed to list tables: %v", err),
		}
	}

	return &ListResourcesResult{Resources: resources}, nil
}

func (s *MCPServer) handleReadResource(params json.RawMessage) (*ReadResourceResult, *Error) {
	var readParams ReadResourceParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return nil, &Error{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    err.Error(),
		}
	}

	// URI format: <scheme>://dbname/tablename/schema
	uri := readParams.URI
	prefix := s.adapter.URIScheme() + "://"
	if !strings.HasPrefix(uri, prefix) {
		return nil, &Error{
			Code:    InvalidParams,
			Message: fmt.Sprintf("Invalid resource URI: must start with %s", prefix),
		}
	}

	parts := strings.Split(strings.TrimPrefix(uri, prefix), "/")
	if len(parts) < 3 || parts[2] != "schema" {
		return nil, &Error{
			Code:    InvalidParams,
			Message: fmt.Sprintf("Invalid resource URI format: expected %sdbname/tablename/schema", prefix),
		}
	}

	dbName := parts[0]
	tableName := parts[1]

	query, args := s.adapter.ReadSchemaQuery(dbName, tableName)

	var columns []map[string]any
	err := s.gateway.queryRows(s.ctx, query, args, func(rows *sql.Rows) error {
		for rows.Next() {
			col, err := s.adapter.ScanSchemaRow(rows)
			if err != nil {
				s.logger.Warn("failed to scan column info", zap.Error(err))
				continue
			}
			columns = append(columns, col)
		}
		return nil
	})
	if err != nil {
		return nil, &Error{
			Code:    InternalError,
			Message: fmt.Sprintf("Failed to get schema: %v", err),
		}
	}

	schemaJSON, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		return nil, &Error{
			Code:    InternalError,
			Message: fmt.Sprintf("Failed to marshal schema: %v", err),
		}
	}

	return &ReadResourceResult{
		Contents: []ResourceContent{
			{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(schemaJSON),
			},
		},
	}, nil
}
