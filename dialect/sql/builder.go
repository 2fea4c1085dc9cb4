package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/rowkit/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// ErrInvalidInput is wrapped by every error a builder reports for a
// malformed descriptor. Such errors are detected before any statement is
// sent to the database.
var ErrInvalidInput = errors.New("invalid input")

// inputErrorf returns an error wrapping ErrInvalidInput.
func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Querier is implemented by every statement builder.
type Querier interface {
	// Query returns the final statement and its arguments, or the errors
	// recorded while building it.
	Query() (string, []any, error)
}

// Builder is the low-level statement writer shared by all statement
// builders. It quotes identifiers for its dialect, writes placeholders and
// records their parameters in order.
type Builder struct {
	sb      strings.Builder
	params  []Param
	errs    []error
	dialect string
}

// NewBuilder returns a Builder for the given dialect.
func NewBuilder(dialect string) *Builder {
	return &Builder{dialect: dialect}
}

// Dialect returns the builder dialect.
func (b *Builder) Dialect() string { return b.dialect }

// Quote quotes an identifier for the builder dialect. An embedded quote
// character is doubled.
func (b *Builder) Quote(ident string) string {
	q := "`"
	if b.postgres() {
		q = `"`
	}
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Ident writes a quoted identifier.
func (b *Builder) Ident(s string) *Builder {
	if s == "" {
		b.AddError(inputErrorf("empty identifier"))
	}
	b.sb.WriteString(b.Quote(s))
	return b
}

// IdentComma writes a comma-separated list of quoted identifiers.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s[i])
	}
	return b
}

// WriteString writes s verbatim.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Pad writes a single space.
func (b *Builder) Pad() *Builder { return b.WriteString(" ") }

// Comma writes ", ".
func (b *Builder) Comma() *Builder { return b.WriteString(", ") }

// Arg writes a placeholder and records v as its parameter. Raw values are
// kept as raw fragments for Splice.
func (b *Builder) Arg(v any) *Builder {
	b.sb.WriteByte('?')
	b.params = append(b.params, paramOf(v))
	return b
}

// Args writes a comma-separated list of placeholders, one per value.
func (b *Builder) Args(vs ...any) *Builder {
	for i := range vs {
		if i > 0 {
			b.Comma()
		}
		b.Arg(vs[i])
	}
	return b
}

// Join appends the statement and parameters of another builder.
func (b *Builder) Join(o *Builder) *Builder {
	b.sb.WriteString(o.sb.String())
	b.params = append(b.params, o.params...)
	b.errs = append(b.errs, o.errs...)
	return b
}

// AddError records an error. Recorded errors are returned, joined, by Query.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the recorded errors, if any.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// Len returns the length of the statement written so far.
func (b *Builder) Len() int { return b.sb.Len() }

// String returns the statement text before raw fragments are spliced.
func (b *Builder) String() string { return b.sb.String() }

// Params returns the recorded parameters in placeholder order.
func (b *Builder) Params() []Param { return b.params }

// Query splices the raw fragments, renumbers placeholders for Postgres and
// returns the statement with its bound arguments.
func (b *Builder) Query() (string, []any, error) {
	if err := b.Err(); err != nil {
		return "", nil, err
	}
	query, args := Splice(b.sb.String(), b.params)
	if b.postgres() {
		query = Rebind(query)
	}
	return query, args, nil
}

func (b *Builder) postgres() bool { return b.dialect == dialect.Postgres }

// DialectBuilder prefixes all statement builders with a dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder with the given dialect name.
//
//	sql.Dialect(dialect.MySQL).Select().From("students")
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Select returns a Selector for the given projection.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	return &Selector{dialect: d.dialect, columns: columns}
}

// Insert returns an InsertBuilder for the given table.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	return &InsertBuilder{dialect: d.dialect, table: table}
}

// Update returns an UpdateBuilder for the given table.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d.dialect, table: table}
}

// Delete returns a DeleteBuilder for the given table.
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{dialect: d.dialect, table: table}
}
