// Package rowkit runs structured queries and mutations against a single
// relational table.
//
// Callers describe intent with descriptors rather than SQL: a filter of
// column conditions, a projection, query options, update changes and an
// identifier target. The Client compiles them with the dialect/sql
// builders and executes the resulting parameterized statements on a
// dialect.Driver.
//
//	drv, err := sql.Open(dialect.MySQL, dsn)
//	if err != nil {
//	    return err
//	}
//	client := rowkit.NewClient(drv, rowkit.WithIDGenerator(rowkit.UUIDGenerator))
//	defer client.Close()
//
//	rows, err := client.Find(ctx, "students", rowkit.Query{
//	    Filter: sql.Where(sql.C("class_id", sql.Eq("c1"))),
//	    Order:  &rowkit.Order{Column: "name", Key: 1},
//	    Limit:  2,
//	})
//
// Descriptors decoded from JSON are converted with ParseFind, ParseFilter,
// ParseChanges, ParseRecords, ParseIdentifier and ParseTarget.
//
// Malformed descriptors are reported as *InputError before any statement
// is sent. Driver failures are reported as *ExecError with the driver
// message preserved.
package rowkit
