package sql

import (
	"fmt"
	"strings"
)

// Assign is a single SET entry of an update.
type Assign struct {
	Column string
	Value  any
}

// Changes is an ordered list of assignments.
type Changes []Assign

// Set returns a copy of c extended with "column = v".
func (c Changes) Set(column string, v any) Changes {
	return append(c[:len(c):len(c)], Assign{Column: column, Value: v})
}

// ChangesOf returns the assignments of m in sorted column order.
func ChangesOf(m map[string]any) Changes {
	c := make(Changes, 0, len(m))
	for _, k := range sortedKeys(m) {
		c = append(c, Assign{Column: k, Value: m[k]})
	}
	return c
}

// Defined returns the assignments whose value is not Undefined.
func (c Changes) Defined() Changes {
	out := make(Changes, 0, len(c))
	for _, a := range c {
		if _, ok := a.Value.(undefined); !ok {
			out = append(out, a)
		}
	}
	return out
}

type undefined struct{}

// Undefined marks an assignment that is dropped before compilation.
// It lets callers build Changes from optional fields without branching.
var Undefined any = undefined{}

// Delta is an arithmetic update of a numeric column relative to its
// current value.
type Delta struct {
	Sign byte // '+' or '-'
	N    any
}

// Inc returns the assignment value "column = column + n". A Raw n is
// inlined in parentheses, "column = column + (text)".
func Inc(n any) Delta { return Delta{Sign: '+', N: n} }

// Dec returns the assignment value "column = column - n".
func Dec(n any) Delta { return Delta{Sign: '-', N: n} }

// UpdateBuilder is a builder for UPDATE statements.
//
//	sql.Dialect(dialect.MySQL).
//	    Update("students").
//	    Set("current_balance", sql.Inc(5)).
//	    Where(sql.ByID("abc"))
type UpdateBuilder struct {
	dialect string
	table   string
	changes Changes
	where   Filter
}

// Set appends the assignment "column = v". A Delta value compiles to a
// relative update and a Raw value is spliced as an expression.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.changes = append(u.changes, Assign{Column: column, Value: v})
	return u
}

// Apply appends every defined assignment of c.
func (u *UpdateBuilder) Apply(c Changes) *UpdateBuilder {
	u.changes = append(u.changes, c.Defined()...)
	return u
}

// Where appends the conditions of f to the target of the update.
func (u *UpdateBuilder) Where(f Filter) *UpdateBuilder {
	u.where = u.where.And(f...)
	return u
}

// Query returns the statement and its arguments.
func (u *UpdateBuilder) Query() (string, []any, error) {
	b := NewBuilder(u.dialect)
	changes := u.changes.Defined()
	switch {
	case u.table == "":
		b.AddError(inputErrorf("update: missing table"))
	case len(changes) == 0:
		b.AddError(inputErrorf("no data to update"))
	case u.where.Empty():
		b.AddError(inputErrorf("no identifier"))
	}
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, a := range changes {
		if i > 0 {
			b.Comma()
		}
		b.Ident(a.Column).WriteString(" = ")
		d, ok := a.Value.(Delta)
		if !ok {
			b.Arg(a.Value)
			continue
		}
		if err := d.check(a.Column); err != nil {
			b.AddError(err)
			continue
		}
		b.Arg(d.expr(a.Column))
	}
	b.WriteString(" WHERE ")
	u.where.Build(b)
	return b.Query()
}

func (d Delta) check(column string) error {
	switch {
	case d.Sign != '+' && d.Sign != '-':
		return inputErrorf("update: unknown delta operator %q on column %q", d.Sign, column)
	case !isValidIdentifier(column) || strings.Contains(column, "."):
		return inputErrorf("update: invalid column %q for a relative update", column)
	case d.N == nil, d.N == (*Raw)(nil):
		return inputErrorf("update: missing delta on column %q", column)
	}
	return nil
}

// expr returns the right-hand side of a relative update of column.
func (d Delta) expr(column string) Raw {
	switch n := d.N.(type) {
	case Raw:
		return Expr(fmt.Sprintf("%s %c (%s)", column, d.Sign, n.Text), n.Args...)
	case *Raw:
		return Expr(fmt.Sprintf("%s %c (%s)", column, d.Sign, n.Text), n.Args...)
	case Bound:
		return Expr(fmt.Sprintf("%s %c ?", column, d.Sign), n.Value)
	}
	return Expr(fmt.Sprintf("%s %c ?", column, d.Sign), d.N)
}
