package main

// sqlInput is the shared single-field input schema: every tool takes one
// string argument named "sql".
func sqlInput(description string) InputSchema {
	return InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"sql": {
				Type:        "string",
				Description: description,
			},
		},
		Required: []string{"sql"},
	}
}

// toolCatalog returns the fixed, ordered list of tools this server
// exposes. Pure and deterministic; the catalog never changes at runtime.
func toolCatalog() []Tool {
	return []Tool{
		{
			Name:        "query",
			Description: "Execute a read-only SQL statement (SELECT, SHOW, or DESCRIBE only)",
			InputSchema: sqlInput("The SQL statement to execute (SELECT, SHOW, or DESCRIBE)"),
		},
		{
			Name:        "insert",
			Description: "Execute an INSERT statement. Requires write operations to be enabled (" + EnvAllowWrites + "=true).",
			InputSchema: sqlInput("The INSERT statement to execute"),
		},
		{
			Name:        "update",
			Description: "Execute an UPDATE statement. Requires write operations to be enabled (" + EnvAllowWrites + "=true).",
			InputSchema: sqlInput("The UPDATE statement to execute"),
		},
		{
			Name:        "delete",
			Description: "Execute a DELETE statement. Requires write operations to be enabled (" + EnvAllowWrites + "=true).",
			InputSchema: sqlInput("The DELETE statement to execute"),
		},
	}
}
