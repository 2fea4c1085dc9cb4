// Package sql compiles filter, projection and mutation descriptors into
// parameterized SQL statements, and executes them over database/sql.
//
// # Builder Types
//
//   - Builder: low-level statement writer with identifier quoting and
//     ordered parameter bookkeeping
//   - Selector: SELECT with filter, order, limit and offset
//   - InsertBuilder: single-row INSERT
//   - UpdateBuilder: UPDATE with direct and relative assignments
//   - DeleteBuilder: DELETE with a mandatory filter and optional LIMIT
//
// # Filters
//
// A Filter is an ordered list of column conditions joined with AND:
//
//	sql.Where(
//	    sql.C("class_id", sql.Eq("c1")),          // `class_id` = ?
//	    sql.C("deleted_at", sql.IsNull()),        // `deleted_at` IS NULL
//	    sql.C("grade", sql.In(1, 2)),             // `grade` IN (?, ?)
//	    sql.C("grade", sql.In()),                 // 1=0
//	    sql.C("age", sql.Between(18, 20)),        // `age` BETWEEN ? AND ?
//	    sql.C("name", sql.Like("ann")),           // `name` LIKE ?  ('%ann%')
//	    sql.C("email", sql.Not(nil)),             // `email` IS NOT NULL
//	    sql.C("status", sql.Not("closed")),       // `status` != ?
//	    sql.C("current_balance", sql.GTE(50)),    // `current_balance` >= ?
//	)
//
// Values are never interpolated into the statement; column names are
// always quoted.
//
// # Raw Fragments
//
// Parameters are carried as a list of Param values: Bound values for the
// driver, and Raw fragments created with Expr. Splice inlines every Raw
// fragment at the position of its placeholder, so expression-valued
// assignments share the parameterized code path:
//
//	sql.Dialect(dialect.MySQL).Update("students").
//	    Set("current_balance", sql.Inc(5)).
//	    Where(sql.ByID("abc"))
//	// UPDATE `students` SET `current_balance` = current_balance + ? WHERE `id` = ?
//	// args: [5 abc]
//
// # Execution
//
// Driver owns a *sql.DB pool and implements dialect.Driver. StatsDriver
// and DebugDriver wrap any dialect.Driver with statistics and zerolog
// statement logging.
package sql
