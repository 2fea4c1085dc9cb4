package sql

// Op is a comparison operator.
type Op string

// Comparison operators accepted by Compare.
const (
	OpLT  Op = "<"
	OpGT  Op = ">"
	OpLTE Op = "<="
	OpGTE Op = ">="
)

// Predicate is a single column-scoped condition. The set of predicates is
// closed: values are created with the constructors of this package and
// compiled by Filter.
type Predicate interface {
	predicate()
}

type (
	eqPred      struct{ v any }
	idPred      struct{ v any }
	nullPred    struct{}
	inPred      struct{ vs []any }
	betweenPred struct{ lo, hi any }
	likePred    struct{ s string }
	notPred     struct{ v any }
	cmpPred     struct {
		op Op
		v  any
	}
)

func (eqPred) predicate()      {}
func (idPred) predicate()      {}
func (nullPred) predicate()    {}
func (inPred) predicate()      {}
func (betweenPred) predicate() {}
func (likePred) predicate()    {}
func (notPred) predicate()     {}
func (cmpPred) predicate()     {}

// Eq matches rows whose column equals v. A nil v matches NULL columns.
func Eq(v any) Predicate {
	if v == nil {
		return nullPred{}
	}
	return eqPred{v: v}
}

// IsNull matches rows whose column is NULL.
func IsNull() Predicate { return nullPred{} }

// In matches rows whose column is one of vs. An empty list matches nothing.
func In(vs ...any) Predicate { return inPred{vs: vs} }

// Between matches rows whose column lies in the closed range [lo, hi].
func Between(lo, hi any) Predicate { return betweenPred{lo: lo, hi: hi} }

// Like matches rows whose column contains the substring s.
func Like(s string) Predicate { return likePred{s: s} }

// Not matches rows whose column differs from v. A nil v matches non-NULL
// columns.
func Not(v any) Predicate { return notPred{v: v} }

// Compare matches rows whose column compares to v with op.
func Compare(op Op, v any) Predicate { return cmpPred{op: op, v: v} }

// LT matches rows whose column is less than v.
func LT(v any) Predicate { return cmpPred{op: OpLT, v: v} }

// GT matches rows whose column is greater than v.
func GT(v any) Predicate { return cmpPred{op: OpGT, v: v} }

// LTE matches rows whose column is less than or equal to v.
func LTE(v any) Predicate { return cmpPred{op: OpLTE, v: v} }

// GTE matches rows whose column is greater than or equal to v.
func GTE(v any) Predicate { return cmpPred{op: OpGTE, v: v} }

// Field is a typed column name that builds conditions on values of type T.
//
//	var Balance = sql.Field[int64]("current_balance")
//	filter := sql.Where(Balance.GTE(50))
type Field[T any] string

// Name returns the column name.
func (f Field[T]) Name() string { return string(f) }

// EQ returns a condition that checks the column equals v.
func (f Field[T]) EQ(v T) Cond { return C(string(f), Eq(v)) }

// NEQ returns a condition that checks the column differs from v.
func (f Field[T]) NEQ(v T) Cond { return C(string(f), Not(v)) }

// In returns a condition that checks the column is one of vs.
func (f Field[T]) In(vs ...T) Cond {
	args := make([]any, len(vs))
	for i := range vs {
		args[i] = vs[i]
	}
	return C(string(f), In(args...))
}

// Between returns a condition that checks the column lies in [lo, hi].
func (f Field[T]) Between(lo, hi T) Cond { return C(string(f), Between(lo, hi)) }

// GT returns a condition that checks the column is greater than v.
func (f Field[T]) GT(v T) Cond { return C(string(f), GT(v)) }

// GTE returns a condition that checks the column is greater than or equal to v.
func (f Field[T]) GTE(v T) Cond { return C(string(f), GTE(v)) }

// LT returns a condition that checks the column is less than v.
func (f Field[T]) LT(v T) Cond { return C(string(f), LT(v)) }

// LTE returns a condition that checks the column is less than or equal to v.
func (f Field[T]) LTE(v T) Cond { return C(string(f), LTE(v)) }

// IsNull returns a condition that checks the column is NULL.
func (f Field[T]) IsNull() Cond { return C(string(f), IsNull()) }

// NotNull returns a condition that checks the column is not NULL.
func (f Field[T]) NotNull() Cond { return C(string(f), Not(nil)) }

// StringField is a text column. It adds substring matching to Field.
type StringField string

// Name returns the column name.
func (f StringField) Name() string { return string(f) }

// EQ returns a condition that checks the column equals v.
func (f StringField) EQ(v string) Cond { return Field[string](f).EQ(v) }

// NEQ returns a condition that checks the column differs from v.
func (f StringField) NEQ(v string) Cond { return Field[string](f).NEQ(v) }

// In returns a condition that checks the column is one of vs.
func (f StringField) In(vs ...string) Cond { return Field[string](f).In(vs...) }

// Contains returns a condition that checks the column contains v.
func (f StringField) Contains(v string) Cond { return C(string(f), Like(v)) }

// IsNull returns a condition that checks the column is NULL.
func (f StringField) IsNull() Cond { return Field[string](f).IsNull() }

// NotNull returns a condition that checks the column is not NULL.
func (f StringField) NotNull() Cond { return Field[string](f).NotNull() }

// IntField is an integer column.
type IntField = Field[int64]
