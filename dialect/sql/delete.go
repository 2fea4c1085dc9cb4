package sql

import (
	"strconv"

	"github.com/syssam/rowkit/dialect"
)

// DeleteBuilder is a builder for DELETE statements.
//
//	sql.Dialect(dialect.MySQL).
//	    Delete("sessions").
//	    Where(sql.Match(map[string]any{"user_id": "u1"})).
//	    Limit(1)
type DeleteBuilder struct {
	dialect string
	table   string
	where   Filter
	limit   *int
}

// Where appends the conditions of f to the statement.
func (d *DeleteBuilder) Where(f Filter) *DeleteBuilder {
	d.where = d.where.And(f...)
	return d
}

// Limit caps the number of deleted rows.
func (d *DeleteBuilder) Limit(n int) *DeleteBuilder {
	d.limit = &n
	return d
}

// Query returns the statement and its arguments. A DELETE without
// conditions is rejected.
func (d *DeleteBuilder) Query() (string, []any, error) {
	b := NewBuilder(d.dialect)
	switch {
	case d.table == "":
		b.AddError(inputErrorf("delete: missing table"))
	case d.where.Empty():
		b.AddError(inputErrorf("delete: empty filter"))
	case d.limit != nil && *d.limit <= 0:
		b.AddError(inputErrorf("delete: limit must be positive, got %d", *d.limit))
	case d.limit != nil && d.dialect != dialect.MySQL:
		b.AddError(inputErrorf("delete: LIMIT is not supported by dialect %q", d.dialect))
	}
	b.WriteString("DELETE FROM ").Ident(d.table).WriteString(" WHERE ")
	d.where.Build(b)
	if d.limit != nil {
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*d.limit))
	}
	return b.Query()
}
