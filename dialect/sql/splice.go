package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// Splice resolves the raw fragments of a parameter list against the
// placeholders of query.
//
// Placeholders are consumed left to right, one parameter each. A Bound
// parameter keeps its placeholder and is appended to the returned
// arguments. A Raw parameter replaces its placeholder with its text and
// contributes its own Args. Placeholders inside quoted strings or quoted
// identifiers are ignored.
//
// The number of placeholders in the returned statement always equals the
// number of returned arguments. A placeholder without a parameter, a
// parameter without a placeholder, or a raw fragment whose placeholder
// count differs from its Args is a programming error, and Splice panics.
// So is a Param among the Args of a raw fragment: they are bound as is.
func Splice(query string, params []Param) (string, []any) {
	marks := placeholders(query)
	if len(marks) != len(params) {
		panic(fmt.Sprintf("sql: splice: %d placeholders for %d parameters in %q", len(marks), len(params), query))
	}
	var (
		sb   strings.Builder
		last int
		args = make([]any, 0, len(params))
	)
	sb.Grow(len(query))
	for i, pos := range marks {
		switch p := params[i].(type) {
		case Bound:
			sb.WriteString(query[last : pos+1])
			args = append(args, p.Value)
		case Raw:
			if n := len(placeholders(p.Text)); n != len(p.Args) {
				panic(fmt.Sprintf("sql: splice: raw fragment %q has %d placeholders for %d arguments", p.Text, n, len(p.Args)))
			}
			for j, a := range p.Args {
				if _, ok := a.(Param); ok {
					panic(fmt.Sprintf("sql: splice: raw fragment %q has a nested %T at argument %d", p.Text, a, j+1))
				}
			}
			sb.WriteString(query[last:pos])
			sb.WriteString(p.Text)
			args = append(args, p.Args...)
		default:
			panic(fmt.Sprintf("sql: splice: unexpected parameter %T at position %d", params[i], i+1))
		}
		last = pos + 1
	}
	sb.WriteString(query[last:])
	return sb.String(), args
}

// Rebind renumbers the "?" placeholders of query into the "$n" form used
// by Postgres.
func Rebind(query string) string {
	marks := placeholders(query)
	if len(marks) == 0 {
		return query
	}
	var (
		sb   strings.Builder
		last int
	)
	sb.Grow(len(query) + len(marks)*2)
	for i, pos := range marks {
		sb.WriteString(query[last:pos])
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(i + 1))
		last = pos + 1
	}
	sb.WriteString(query[last:])
	return sb.String()
}

// placeholders returns the byte offsets of the "?" placeholders in query,
// skipping single-quoted strings, double-quoted and backtick identifiers.
func placeholders(query string) []int {
	var (
		marks []int
		quote byte
	)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			switch {
			case c == '\\' && quote == '\'':
				i++
			case c == quote:
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			marks = append(marks, i)
		}
	}
	return marks
}
