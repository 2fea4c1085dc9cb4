package sql

// InsertBuilder is a builder for single-row INSERT statements.
//
//	sql.Dialect(dialect.MySQL).
//	    Insert("students").
//	    Columns("id", "name").
//	    Values("s1", "Ada")
type InsertBuilder struct {
	dialect string
	table   string
	columns []string
	values  []any
}

// Columns appends columns to the statement.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values appends values to the statement, one per column.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values...)
	return i
}

// Set appends a single column and its value.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	i.values = append(i.values, v)
	return i
}

// Record appends every entry of r, in sorted column order.
func (i *InsertBuilder) Record(r map[string]any) *InsertBuilder {
	for _, k := range sortedKeys(r) {
		i.Set(k, r[k])
	}
	return i
}

// Query returns the statement and its arguments.
func (i *InsertBuilder) Query() (string, []any, error) {
	b := NewBuilder(i.dialect)
	switch {
	case i.table == "":
		b.AddError(inputErrorf("insert: missing table"))
	case len(i.columns) == 0:
		b.AddError(inputErrorf("insert: no columns to insert"))
	case len(i.columns) != len(i.values):
		b.AddError(inputErrorf("insert: %d columns for %d values", len(i.columns), len(i.values)))
	}
	b.WriteString("INSERT INTO ").Ident(i.table)
	b.WriteString(" (").IdentComma(i.columns...).WriteString(")")
	b.WriteString(" VALUES (").Args(i.values...).WriteString(")")
	return b.Query()
}
