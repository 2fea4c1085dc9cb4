package dialect

import (
	"context"
	"database/sql"
)

// Dialect names. Each one is also the name the matching database/sql
// driver registers itself under.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two statement entry points of a connection.
type ExecQuerier interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args []any) (sql.Result, error)
	// Query runs a statement that returns rows. The caller closes them.
	Query(ctx context.Context, query string, args []any) (*sql.Rows, error)
}

// Driver is the interface that wraps a pooled database connection.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying pool.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query methods with Commit and Rollback.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Supported reports whether name is one of the known dialects.
func Supported(name string) bool {
	switch name {
	case MySQL, SQLite, Postgres:
		return true
	}
	return false
}
