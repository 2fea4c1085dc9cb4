package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplice(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		params    []Param
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "bound_only",
			query:     "a = ? AND b = ?",
			params:    []Param{Bound{1}, Bound{"x"}},
			wantQuery: "a = ? AND b = ?",
			wantArgs:  []any{1, "x"},
		},
		{
			name:      "raw_without_args",
			query:     "a = ? AND b = ?",
			params:    []Param{Bound{1}, Raw{Text: "NOW()"}},
			wantQuery: "a = ? AND b = NOW()",
			wantArgs:  []any{1},
		},
		{
			name:      "raw_with_args",
			query:     "SET `n` = ? WHERE `id` = ?",
			params:    []Param{Expr("n + ?", 5), Bound{"abc"}},
			wantQuery: "SET `n` = n + ? WHERE `id` = ?",
			wantArgs:  []any{5, "abc"},
		},
		{
			name:      "raw_first_and_last",
			query:     "? AND ?",
			params:    []Param{Expr("x"), Expr("y IN (?, ?)", 1, 2)},
			wantQuery: "x AND y IN (?, ?)",
			wantArgs:  []any{1, 2},
		},
		{
			name:      "quoted_text_skipped",
			query:     "a = '?' AND `b?` = ? AND \"c?\" = 'it\\'s ?'",
			params:    []Param{Bound{1}},
			wantQuery: "a = '?' AND `b?` = ? AND \"c?\" = 'it\\'s ?'",
			wantArgs:  []any{1},
		},
		{
			name:      "no_placeholders",
			query:     "SELECT 1",
			wantQuery: "SELECT 1",
			wantArgs:  []any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := Splice(tt.query, tt.params)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
			assert.Len(t, placeholders(query), len(args))
		})
	}
}

func TestSplice_Panics(t *testing.T) {
	assert.PanicsWithValue(t,
		`sql: splice: 2 placeholders for 1 parameters in "a = ? AND b = ?"`,
		func() { Splice("a = ? AND b = ?", []Param{Bound{1}}) },
	)
	assert.Panics(t, func() { Splice("a = ?", []Param{Bound{1}, Bound{2}}) })
	assert.PanicsWithValue(t,
		`sql: splice: raw fragment "n + ?" has 1 placeholders for 0 arguments`,
		func() { Splice("a = ?", []Param{Raw{Text: "n + ?"}}) },
	)
	assert.Panics(t, func() { Splice("a = ?", []Param{nil}) })
	assert.PanicsWithValue(t,
		`sql: splice: raw fragment "n + ?" has a nested sql.Raw at argument 1`,
		func() { Splice("a = ?", []Param{Expr("n + ?", Expr("m * ?", 2))}) },
	)
	assert.Panics(t, func() { Splice("a = ?", []Param{Expr("n + ?", &Raw{Text: "m"})}) })
	assert.Panics(t, func() { Splice("a = ?", []Param{Expr("n + ?", Bound{1})}) })
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"a = ? AND b = ?", "a = $1 AND b = $2"},
		{`a = '?' AND "b?" = ? AND c IN (?, ?)`, `a = '?' AND "b?" = $1 AND c IN ($2, $3)`},
		{"?", "$1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rebind(tt.in), tt.in)
	}
}

func TestParamOf(t *testing.T) {
	raw := Expr("NOW()")
	assert.Equal(t, Bound{Value: 1}, paramOf(1))
	assert.Equal(t, Bound{Value: nil}, paramOf(nil))
	assert.Equal(t, raw, paramOf(raw))
	assert.Equal(t, raw, paramOf(&raw))
	assert.Equal(t, Bound{Value: "x"}, paramOf(Bound{Value: "x"}))
}
