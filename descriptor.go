package rowkit

import (
	"encoding/json"
	"maps"
	"math"
	"slices"

	"github.com/syssam/rowkit/dialect/sql"
)

// Operator keys of a filter value object.
var filterOps = map[string]sql.Op{
	"<":   sql.OpLT,
	">":   sql.OpGT,
	"<=":  sql.OpLTE,
	">=":  sql.OpGTE,
	"lt":  sql.OpLT,
	"gt":  sql.OpGT,
	"lte": sql.OpLTE,
	"gte": sql.OpGTE,
}

// ParseFind converts a find descriptor of the form
//
//	{"filter": {...}, "view": [...], "options": {...}}
//
// into a Query. Every key is optional.
func ParseFind(m map[string]any) (Query, error) {
	var q Query
	for _, k := range sortedKeys(m) {
		var err error
		switch v := m[k]; k {
		case "filter":
			fm, ok := v.(map[string]any)
			if !ok && v != nil {
				return Query{}, NewInputError("find", "filter must be an object, got %T", v)
			}
			q.Filter, err = ParseFilter(fm)
		case "view":
			q.View, err = ParseView(v)
		case "options":
			om, ok := v.(map[string]any)
			if !ok && v != nil {
				return Query{}, NewInputError("find", "options must be an object, got %T", v)
			}
			var opts Query
			opts, err = ParseOptions(om)
			q.Order, q.Limit, q.Skip = opts.Order, opts.Limit, opts.Skip
		default:
			return Query{}, NewInputError("find", "unknown key %q", k)
		}
		if err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// ParseFilter converts a filter descriptor. Each entry maps a column to
// a scalar (equality), null (IS NULL), an array (IN) or an object holding
// exactly one operator key:
//
//	{"in": [...]}, {"between": [lo, hi]}, {"like": "s"}, {"not": v},
//	{"<": v}, {">": v}, {"<=": v}, {">=": v} (or "lt", "gt", "lte", "gte")
//
// Columns are compiled in sorted order.
func ParseFilter(m map[string]any) (sql.Filter, error) {
	f := make(sql.Filter, 0, len(m))
	for _, col := range sortedKeys(m) {
		p, err := parsePredicate(col, m[col])
		if err != nil {
			return nil, err
		}
		f = append(f, sql.C(col, p))
	}
	return f, nil
}

func parsePredicate(col string, v any) (sql.Predicate, error) {
	switch v := v.(type) {
	case nil:
		return sql.IsNull(), nil
	case []any:
		vs, err := scalars("filter", col, v)
		if err != nil {
			return nil, err
		}
		return sql.In(vs...), nil
	case map[string]any:
		return parseOperator(col, v)
	default:
		s, err := scalar("filter", col, v)
		if err != nil {
			return nil, err
		}
		return sql.Eq(s), nil
	}
}

func parseOperator(col string, m map[string]any) (sql.Predicate, error) {
	if len(m) != 1 {
		return nil, NewInputError("filter", "column %q: operator object must hold exactly one key, got %d", col, len(m))
	}
	for op, arg := range m {
		switch op {
		case "in":
			list, ok := arg.([]any)
			if !ok {
				return nil, NewInputError("filter", "column %q: in expects an array, got %T", col, arg)
			}
			vs, err := scalars("filter", col, list)
			if err != nil {
				return nil, err
			}
			return sql.In(vs...), nil
		case "between":
			list, ok := arg.([]any)
			if !ok || len(list) != 2 {
				return nil, NewInputError("filter", "column %q: between expects a pair of values", col)
			}
			vs, err := scalars("filter", col, list)
			if err != nil {
				return nil, err
			}
			return sql.Between(vs[0], vs[1]), nil
		case "like":
			s, ok := arg.(string)
			if !ok {
				return nil, NewInputError("filter", "column %q: like expects a string, got %T", col, arg)
			}
			return sql.Like(s), nil
		case "not":
			if arg == nil {
				return sql.Not(nil), nil
			}
			s, err := scalar("filter", col, arg)
			if err != nil {
				return nil, err
			}
			return sql.Not(s), nil
		default:
			cmp, ok := filterOps[op]
			if !ok {
				return nil, NewInputError("filter", "column %q: unknown operator %q", col, op)
			}
			s, err := scalar("filter", col, arg)
			if err != nil {
				return nil, err
			}
			if s == nil {
				return nil, NewInputError("filter", "column %q: operator %q expects a value", col, op)
			}
			return sql.Compare(cmp, s), nil
		}
	}
	panic("unreachable")
}

// ParseView converts a view descriptor: an array of column names. A nil
// or empty view selects every column.
func ParseView(v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		cols := make([]string, len(v))
		for i, c := range v {
			s, ok := c.(string)
			if !ok || s == "" {
				return nil, NewInputError("find", "view entry %d must be a column name, got %v", i, c)
			}
			cols[i] = s
		}
		return cols, nil
	default:
		return nil, NewInputError("find", "view must be an array of column names, got %T", v)
	}
}

// ParseOptions converts query options:
//
//	{"order": {"name": 1}, "limit": 2, "skip": 10}
//
// Only the Order, Limit and Skip fields of the returned Query are set.
func ParseOptions(m map[string]any) (Query, error) {
	var q Query
	for _, k := range sortedKeys(m) {
		v := m[k]
		switch k {
		case "order":
			om, ok := v.(map[string]any)
			if !ok || len(om) != 1 {
				return Query{}, NewInputError("find", "order must be an object with a single column")
			}
			for col, key := range om {
				n, err := integer("order", key)
				if err != nil {
					return Query{}, err
				}
				q.Order = &Order{Column: col, Key: n}
			}
		case "limit", "skip", "offset":
			n, err := integer(k, v)
			if err != nil {
				return Query{}, err
			}
			if n < 0 {
				return Query{}, NewInputError("find", "%s must not be negative, got %d", k, n)
			}
			if k == "limit" {
				q.Limit = n
			} else {
				q.Skip = n
			}
		default:
			return Query{}, NewInputError("find", "unknown option %q", k)
		}
	}
	return q, nil
}

// ParseChanges converts an update descriptor. Each entry maps a column to
// a scalar or null (direct assignment), or to {"inc": n} or {"dec": n}
// (relative assignment). Columns are compiled in sorted order.
func ParseChanges(m map[string]any) (sql.Changes, error) {
	c := make(sql.Changes, 0, len(m))
	for _, col := range sortedKeys(m) {
		v := m[col]
		dm, ok := v.(map[string]any)
		if !ok {
			s, err := scalar("update", col, v)
			if err != nil {
				return nil, err
			}
			c = c.Set(col, s)
			continue
		}
		if len(dm) != 1 {
			return nil, NewInputError("update", "column %q: delta object must hold exactly one key, got %d", col, len(dm))
		}
		for op, n := range dm {
			num, err := scalar("update", col, n)
			if err != nil {
				return nil, err
			}
			if !isNumber(num) {
				return nil, NewInputError("update", "column %q: %s expects a number, got %T", col, op, n)
			}
			switch op {
			case "inc":
				c = c.Set(col, sql.Inc(num))
			case "dec":
				c = c.Set(col, sql.Dec(num))
			default:
				return nil, NewInputError("update", "column %q: unknown operator %q", col, op)
			}
		}
	}
	if len(c) == 0 {
		return nil, NewInputError("update", "no data to update")
	}
	return c, nil
}

// ParseRecords converts an insert payload: a single object or a non-empty
// array of objects.
func ParseRecords(v any) ([]Record, error) {
	switch v := v.(type) {
	case map[string]any:
		r, err := parseRecord(0, v)
		if err != nil {
			return nil, err
		}
		return []Record{r}, nil
	case []any:
		if len(v) == 0 {
			return nil, NewInputError("insert", "no records to insert")
		}
		rs := make([]Record, len(v))
		for i, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, NewInputError("insert", "record %d must be an object, got %T", i, e)
			}
			r, err := parseRecord(i, m)
			if err != nil {
				return nil, err
			}
			rs[i] = r
		}
		return rs, nil
	default:
		return nil, NewInputError("insert", "payload must be an object or an array of objects, got %T", v)
	}
}

func parseRecord(i int, m map[string]any) (Record, error) {
	if len(m) == 0 {
		return nil, NewInputError("insert", "record %d is empty", i)
	}
	r := make(Record, len(m))
	for col, v := range m {
		s, err := scalar("insert", col, v)
		if err != nil {
			return nil, err
		}
		r[col] = s
	}
	return r, nil
}

// ParseIdentifier converts an update target: a scalar id, or an object of
// column values matched for equality.
func ParseIdentifier(v any) (sql.Filter, error) {
	switch v := v.(type) {
	case nil:
		return nil, NewInputError("update", "no identifier")
	case map[string]any:
		if len(v) == 0 {
			return nil, NewInputError("update", "no identifier")
		}
		m := make(map[string]any, len(v))
		for col, e := range v {
			s, err := scalar("update", col, e)
			if err != nil {
				return nil, err
			}
			m[col] = s
		}
		return sql.Match(m), nil
	default:
		s, err := idScalar("update", v)
		if err != nil {
			return nil, err
		}
		return sql.ByID(s), nil
	}
}

// ParseTarget converts a delete target: a scalar id, or a full filter
// descriptor. An empty target is rejected.
func ParseTarget(v any) (sql.Filter, error) {
	switch v := v.(type) {
	case nil:
		return nil, NewInputError("delete", "empty filter")
	case map[string]any:
		if len(v) == 0 {
			return nil, NewInputError("delete", "empty filter")
		}
		return ParseFilter(v)
	default:
		s, err := idScalar("delete", v)
		if err != nil {
			return nil, err
		}
		return sql.ByID(s), nil
	}
}

// idScalar validates a scalar id. An empty string is not an id.
func idScalar(op string, v any) (any, error) {
	s, err := scalar(op, IDColumn, v)
	if err != nil {
		return nil, err
	}
	if s == nil || s == "" {
		return nil, NewInputError(op, "no identifier")
	}
	return s, nil
}

// scalar validates a column value and converts json.Number to int64 or
// float64.
func scalar(op, col string, v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, NewInputError(op, "column %q: invalid number %q", col, v.String())
		}
		return f, nil
	case map[string]any, []any:
		return nil, NewInputError(op, "column %q: expected a scalar value, got %T", col, v)
	default:
		return v, nil
	}
}

func scalars(op, col string, vs []any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		s, err := scalar(op, col, v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// integer converts an option value. Floats must be integral.
func integer(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), nil
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
	}
	return 0, NewInputError("find", "%s must be an integer, got %v", name, v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
