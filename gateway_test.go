package main

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newFakeGateway(maxRows int) *Gateway {
	resetFake()
	return &Gateway{
		driver:  "fakedb",
		dsn:     "fake",
		maxRows: maxRows,
		logger:  zap.NewNop(),
	}
}

func resultText(t *testing.T, result *CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("Expected exactly one content item, got %d", len(result.Content))
	}
	if result.Content[0].Type != "text" {
		t.Fatalf("Expected text content, got %q", result.Content[0].Type)
	}
	return result.Content[0].Text
}

func TestExecuteRead_SerializesRows(t *testing.T) {
	g := newFakeGateway(100)
	fake.columns = []string{"id", "name"}
	fake.rows = [][]driver.Value{
		{int64(1), []byte("alice")},
		{int64(2), []byte("bob")},
	}

	result := g.ExecuteRead(context.Background(), "SELECT * FROM users")
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{`"id": 1`, `"name": "alice"`, `"name": "bob"`} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, text)
		}
	}
	if fake.opens != 1 {
		t.Errorf("Expected exactly one connection, got %d", fake.opens)
	}
	if fake.closes != 1 {
		t.Errorf("Expected connection to be released exactly once, got %d", fake.closes)
	}
}

func TestExecuteRead_LargeUnsignedPreservesDigits(t *testing.T) {
	g := newFakeGateway(100)
	fake.columns = []string{"counter", "big"}
	fake.rows = [][]driver.Value{
		// Above 2^53-1 but within int64: stays a JSON number with exact digits.
		// Above int64: emitted as a decimal string.
		{uint64(9007199254740993), uint64(18446744073709551615)},
	}

	result := g.ExecuteRead(context.Background(), "SELECT counter, big FROM stats")
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "9007199254740993") {
		t.Errorf("Expected exact digits for 2^53+1, got:\n%s", text)
	}
	if !strings.Contains(text, `"18446744073709551615"`) {
		t.Errorf("Expected max uint64 as a decimal string, got:\n%s", text)
	}
	if strings.Contains(text, "e+") || strings.Contains(text, "E+") {
		t.Errorf("Output must not use scientific notation:\n%s", text)
	}
}

func TestExecuteRead_FailureReleasesConnection(t *testing.T) {
	g := newFakeGateway(100)
	fake.queryErr = errors.New("Table 'app.users' doesn't exist")

	result := g.ExecuteRead(context.Background(), "SELECT * FROM users")
	if !result.IsError {
		t.Fatal("Expected flagged error outcome")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Query error:") {
		t.Errorf("Expected query-stage marker, got: %s", text)
	}
	if !strings.Contains(text, "Table 'app.users' doesn't exist") {
		t.Errorf("Expected the driver message verbatim, got: %s", text)
	}
	if fake.opens != 1 || fake.closes != 1 {
		t.Errorf("Expected one open and one release, got opens=%d closes=%d", fake.opens, fake.closes)
	}
}

func TestExecuteRead_TruncatesAtRowCap(t *testing.T) {
	g := newFakeGateway(2)
	fake.columns = []string{"n"}
	fake.rows = [][]driver.Value{
		{int64(1)}, {int64(2)}, {int64(3)},
	}

	result := g.ExecuteRead(context.Background(), "SELECT n FROM t")
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Result truncated at 2 rows") {
		t.Errorf("Expected truncation warning, got:\n%s", text)
	}
	if strings.Contains(text, `"n": 3`) {
		t.Errorf("Row past the cap should not appear:\n%s", text)
	}
}

func TestExecuteWrite_InsertWithGeneratedID(t *testing.T) {
	g := newFakeGateway(100)
	fake.affected = 1
	fake.insertID = 42

	result := g.ExecuteWrite(context.Background(), "INSERT INTO t VALUES (1)", OpInsert)
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}
	if text := resultText(t, result); text != "INSERT successful. Affected rows: 1. Insert ID: 42." {
		t.Errorf("Unexpected message: %q", text)
	}
}

func TestExecuteWrite_ZeroInsertIDOmitted(t *testing.T) {
	g := newFakeGateway(100)
	fake.affected = 1
	fake.insertID = 0

	result := g.ExecuteWrite(context.Background(), "INSERT INTO t VALUES (1)", OpInsert)
	if text := resultText(t, result); text != "INSERT successful. Affected rows: 1." {
		t.Errorf("Unexpected message: %q", text)
	}
}

func TestExecuteWrite_UnsupportedInsertIDOmitted(t *testing.T) {
	g := newFakeGateway(100)
	fake.affected = 2
	fake.insertIDErr = errors.New("no LastInsertId available")

	result := g.ExecuteWrite(context.Background(), "UPDATE t SET a = 1", OpUpdate)
	if text := resultText(t, result); text != "UPDATE successful. Affected rows: 2." {
		t.Errorf("Unexpected message: %q", text)
	}
}

func TestExecuteWrite_DeleteAffectedRows(t *testing.T) {
	g := newFakeGateway(100)
	fake.affected = 3

	result := g.ExecuteWrite(context.Background(), "DELETE FROM t WHERE id < 4", OpDelete)
	if text := resultText(t, result); text != "DELETE successful. Affected rows: 3." {
		t.Errorf("Unexpected message: %q", text)
	}
}

func TestExecuteWrite_FailureReleasesConnection(t *testing.T) {
	g := newFakeGateway(100)
	fake.execErr = errors.New("Duplicate entry '1' for key 'PRIMARY'")

	result := g.ExecuteWrite(context.Background(), "INSERT INTO t VALUES (1)", OpInsert)
	if !result.IsError {
		t.Fatal("Expected flagged error outcome")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "INSERT error:") {
		t.Errorf("Expected operation-stage marker, got: %s", text)
	}
	if !strings.Contains(text, "Duplicate entry") {
		t.Errorf("Expected the driver message verbatim, got: %s", text)
	}
	if fake.opens != 1 || fake.closes != 1 {
		t.Errorf("Expected one open and one release, got opens=%d closes=%d", fake.opens, fake.closes)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"bytes to string", []byte("hello"), "hello"},
		{"small uint64 stays numeric", uint64(7), uint64(7)},
		{"max int64 stays numeric", uint64(9223372036854775807), uint64(9223372036854775807)},
		{"above int64 becomes string", uint64(9223372036854775808), "9223372036854775808"},
		{"int64 untouched", int64(-5), int64(-5)},
		{"nil untouched", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeValue(tc.in); got != tc.want {
				t.Errorf("normalizeValue(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
