package sql

import (
	"slices"
)

// Cond is a predicate bound to a column.
type Cond struct {
	Column string
	Pred   Predicate
}

// C returns the condition "column matches p".
func C(column string, p Predicate) Cond {
	return Cond{Column: column, Pred: p}
}

// Filter is an ordered list of conditions joined with AND. The zero value
// matches every row and compiles to an empty clause.
type Filter []Cond

// Where returns a filter of the given conditions.
//
//	sql.Where(
//	    sql.C("class_id", sql.Eq("c1")),
//	    sql.C("current_balance", sql.GTE(50)),
//	)
func Where(conds ...Cond) Filter {
	return Filter(conds)
}

// ByID returns the filter "id = v". Unlike Eq, a nil or empty v does not
// match anything: the filter fails to compile.
func ByID(v any) Filter {
	return Filter{C("id", idPred{v: v})}
}

// Match returns an equality filter for every entry of m. Columns are
// emitted in sorted order.
func Match(m map[string]any) Filter {
	f := make(Filter, 0, len(m))
	for _, k := range sortedKeys(m) {
		f = append(f, C(k, Eq(m[k])))
	}
	return f
}

// And returns a copy of f extended with conds.
func (f Filter) And(conds ...Cond) Filter {
	return append(slices.Clip(f), conds...)
}

// Empty reports whether the filter has no conditions.
func (f Filter) Empty() bool { return len(f) == 0 }

// Build writes the clause of f, without the WHERE keyword, to b.
func (f Filter) Build(b *Builder) {
	for i, c := range f {
		if i > 0 {
			b.WriteString(" AND ")
		}
		c.build(b)
	}
}

func (c Cond) build(b *Builder) {
	if c.Column == "" {
		b.AddError(inputErrorf("filter: empty column name"))
		return
	}
	switch p := c.Pred.(type) {
	case nullPred:
		b.Ident(c.Column).WriteString(" IS NULL")
	case eqPred:
		b.Ident(c.Column).WriteString(" = ").Arg(p.v)
	case idPred:
		if p.v == nil || p.v == "" {
			b.AddError(inputErrorf("no identifier"))
			return
		}
		b.Ident(c.Column).WriteString(" = ").Arg(p.v)
	case inPred:
		if len(p.vs) == 0 {
			b.WriteString("1=0")
			return
		}
		b.Ident(c.Column).WriteString(" IN (").Args(p.vs...).WriteString(")")
	case betweenPred:
		b.Ident(c.Column).WriteString(" BETWEEN ").Arg(p.lo).WriteString(" AND ").Arg(p.hi)
	case likePred:
		b.Ident(c.Column).WriteString(" LIKE ").Arg("%" + p.s + "%")
	case notPred:
		if p.v == nil {
			b.Ident(c.Column).WriteString(" IS NOT NULL")
			return
		}
		b.Ident(c.Column).WriteString(" != ").Arg(p.v)
	case cmpPred:
		switch p.op {
		case OpLT, OpGT, OpLTE, OpGTE:
		default:
			b.AddError(inputErrorf("filter: unknown operator %q on column %q", p.op, c.Column))
			return
		}
		b.Ident(c.Column).Pad().WriteString(string(p.op)).Pad().Arg(p.v)
	case nil:
		b.AddError(inputErrorf("filter: missing predicate on column %q", c.Column))
	default:
		b.AddError(inputErrorf("filter: unsupported predicate %T on column %q", c.Pred, c.Column))
	}
}

// Projection writes the select list of columns to b: "*" when empty,
// otherwise every name quoted and comma-separated.
func Projection(b *Builder, columns []string) {
	if len(columns) == 0 {
		b.WriteString("*")
		return
	}
	b.IdentComma(columns...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
