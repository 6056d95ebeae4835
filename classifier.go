package main

import (
	"fmt"
	"strings"
)

// WriteOp identifies one of the gated write tools.
type WriteOp string

const (
	OpInsert WriteOp = "insert"
	OpUpdate WriteOp = "update"
	OpDelete WriteOp = "delete"
)

// Keyword returns the SQL keyword form of the operation ("INSERT", ...).
func (op WriteOp) Keyword() string {
	return strings.ToUpper(string(op))
}

// readKeywords are the statement kinds the query tool accepts.
var readKeywords = []string{"select", "show", "describe"}

// leadingToken returns the first whitespace-delimited token of the
// statement, lower-cased. The original statement text is what gets
// executed; the normalized form exists only for classification. An empty
// or whitespace-only statement yields "".
func leadingToken(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// classifyRead reports whether the statement is acceptable for the query
// tool. This is a lexical check on the leading token only: statements
// disguised with leading comments or compounded after a semicolon are not
// detected, and SQL grammar is not validated. That is a known limitation;
// the database itself is the final arbiter.
func classifyRead(stmt string) error {
	token := leadingToken(stmt)
	for _, kw := range readKeywords {
		if token == kw {
			return nil
		}
	}
	return fmt.Errorf("only SELECT, SHOW, and DESCRIBE statements are allowed")
}

// classifyWrite reports whether the statement's leading token matches the
// requested write operation. Same lexical-only caveat as classifyRead.
func classifyWrite(stmt string, op WriteOp) error {
	if leadingToken(stmt) != string(op) {
		return fmt.Errorf("statement must begin with %s for the %s tool", op.Keyword(), op)
	}
	return nil
}
