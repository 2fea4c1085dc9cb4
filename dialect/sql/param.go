package sql

// Param is a positional statement parameter. It is either a Bound value,
// handed to the driver for binding, or a Raw fragment, inlined into the
// statement text at its placeholder position by Splice.
//
// The set of implementations is closed to this package.
type Param interface {
	param()
}

// Bound is a value bound to its placeholder by the driver.
type Bound struct {
	Value any
}

func (Bound) param() {}

// Raw is a literal SQL fragment that is spliced verbatim into the
// statement instead of being bound. The fragment may carry its own "?"
// placeholders; Args are bound to them in order.
type Raw struct {
	Text string
	Args []any
}

func (Raw) param() {}

// Expr returns a raw SQL fragment. It may be used anywhere a value is
// accepted: a filter operand, an insert value or an update assignment.
//
//	sql.Expr("NOW()")
//	sql.Expr("balance * ?", 2)
func Expr(text string, args ...any) Raw {
	return Raw{Text: text, Args: args}
}

// paramOf wraps v as a Param. Values that already are Params are kept.
func paramOf(v any) Param {
	switch p := v.(type) {
	case Raw:
		return p
	case *Raw:
		return *p
	case Bound:
		return p
	default:
		return Bound{Value: v}
	}
}
