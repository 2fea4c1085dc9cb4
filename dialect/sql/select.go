package sql

import (
	"strconv"

	"github.com/syssam/rowkit/dialect"
)

// Sort keys accepted by Selector.OrderBy. Any key other than Asc sorts in
// descending order.
const (
	Asc  = 1
	Desc = -1
)

// Selector is a builder for SELECT statements.
//
//	sql.Dialect(dialect.MySQL).
//	    Select().
//	    From("students").
//	    Where(sql.Where(sql.C("class_id", sql.Eq("c1")))).
//	    OrderBy("name", sql.Asc).
//	    Limit(2)
type Selector struct {
	dialect string
	table   string
	columns []string
	count   bool
	where   Filter
	order   string
	asc     bool
	limit   *int
	offset  *int
	errs    []error
}

// From sets the source table.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Columns sets the projection. No columns selects "*".
func (s *Selector) Columns(columns ...string) *Selector {
	s.columns = columns
	return s
}

// Where appends the conditions of f to the selection.
func (s *Selector) Where(f Filter) *Selector {
	s.where = s.where.And(f...)
	return s
}

// Count turns the statement into "SELECT COUNT(*)".
func (s *Selector) Count() *Selector {
	s.count = true
	return s
}

// OrderBy sorts by column. A key of 1 sorts ascending, any other key
// descending. The column is written as given and must be a plain
// identifier.
func (s *Selector) OrderBy(column string, key int) *Selector {
	if !isValidIdentifier(column) {
		s.errs = append(s.errs, inputErrorf("order: invalid column %q", column))
		return s
	}
	s.order, s.asc = column, key == Asc
	return s
}

// Limit sets the maximum number of returned rows.
func (s *Selector) Limit(n int) *Selector {
	if n < 0 {
		s.errs = append(s.errs, inputErrorf("limit must not be negative, got %d", n))
		return s
	}
	s.limit = &n
	return s
}

// Offset sets the number of skipped rows.
func (s *Selector) Offset(n int) *Selector {
	if n < 0 {
		s.errs = append(s.errs, inputErrorf("offset must not be negative, got %d", n))
		return s
	}
	s.offset = &n
	return s
}

// Query returns the statement and its arguments.
func (s *Selector) Query() (string, []any, error) {
	b := NewBuilder(s.dialect)
	for _, err := range s.errs {
		b.AddError(err)
	}
	if s.table == "" {
		b.AddError(inputErrorf("select: missing table"))
	}
	b.WriteString("SELECT ")
	if s.count {
		b.WriteString("COUNT(*)")
	} else {
		Projection(b, s.columns)
	}
	b.WriteString(" FROM ").Ident(s.table)
	if !s.where.Empty() {
		b.WriteString(" WHERE ")
		s.where.Build(b)
	}
	if s.order != "" {
		b.WriteString(" ORDER BY ").WriteString(s.order)
		if s.asc {
			b.WriteString(" ASC")
		} else {
			b.WriteString(" DESC")
		}
	}
	switch {
	case s.limit != nil:
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*s.limit))
	case s.offset != nil:
		// MySQL and SQLite accept OFFSET only after a LIMIT.
		switch s.dialect {
		case dialect.MySQL:
			b.WriteString(" LIMIT 18446744073709551615")
		case dialect.SQLite:
			b.WriteString(" LIMIT -1")
		}
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").WriteString(strconv.Itoa(*s.offset))
	}
	return b.Query()
}
