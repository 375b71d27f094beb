package database

import (
	"context"
	"database/sql"
)

// Database is the slice of *sql.DB the executor needs.
type Database interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	PingContext(ctx context.Context) error
	Close() error
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
}

type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// Assert that *sql.Rows implements Rows.
var _ Rows = (*sql.Rows)(nil)
