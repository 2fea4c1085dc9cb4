// Package dialect defines the driver contract shared by the rowkit
// statement compiler and its connection executors.
//
// # Dialect Constants
//
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "postgres"
//
// MySQL is the reference dialect: identifiers are quoted with backticks and
// parameters use the positional "?" placeholder. SQLite shares both
// conventions. Postgres quotes with double quotes and its placeholders are
// renumbered to "$1", "$2", ... after compilation.
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args []any) (sql.Result, error)
//	    Query(ctx context.Context, query string, args []any) (*sql.Rows, error)
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	drv, err := sql.Open(dialect.MySQL, "user:pass@tcp(localhost:3306)/school")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	client := rowkit.NewClient(drv)
//
// # Sub-packages
//
//   - dialect/sql: statement builders, raw fragment splicing and the driver
//   - dialect/sql/sqlerr: classification of driver errors
package dialect
