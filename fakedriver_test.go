package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
)

// fakeState scripts the behavior of the fake driver and counts connection
// activity. Tests reset it before use; tests in this package do not run
// in parallel.
type fakeState struct {
	opens  int
	closes int

	queryErr error
	columns  []string
	rows     [][]driver.Value

	execErr     error
	affected    int64
	insertID    int64
	insertIDErr error
}

var fake = &fakeState{}

func resetFake() {
	fake.opens = 0
	fake.closes = 0
	fake.queryErr = nil
	fake.columns = nil
	fake.rows = nil
	fake.execErr = nil
	fake.affected = 0
	fake.insertID = 0
	fake.insertIDErr = nil
}

type fakeDriver struct{}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	fake.opens++
	return &fakeConn{}, nil
}

type fakeConn struct{}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported by fake driver")
}

func (c *fakeConn) Close() error {
	fake.closes++
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported by fake driver")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if fake.queryErr != nil {
		return nil, fake.queryErr
	}
	return &fakeRows{}, nil
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if fake.execErr != nil {
		return nil, fake.execErr
	}
	return fakeResult{}, nil
}

type fakeRows struct {
	idx int
}

func (r *fakeRows) Columns() []string { return fake.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.idx >= len(fake.rows) {
		return io.EOF
	}
	copy(dest, fake.rows[r.idx])
	r.idx++
	return nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return fake.insertID, fake.insertIDErr }
func (fakeResult) RowsAffected() (int64, error) { return fake.affected, nil }

func init() {
	sql.Register("fakedb", &fakeDriver{})
}
