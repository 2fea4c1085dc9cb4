package rowkit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rowkit"
	"github.com/syssam/rowkit/dialect/sql"
	"github.com/syssam/rowkit/dialect/sql/sqlerr"
)

func TestInputError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := rowkit.NewInputError("find", "limit must not be negative, got %d", -1)
		assert.Equal(t, "rowkit: invalid find input: limit must not be negative, got -1", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := rowkit.NewInputError("update", "no data to update")
		assert.True(t, errors.Is(err, sql.ErrInvalidInput))
		assert.True(t, rowkit.IsInputError(err))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("cli: %w", rowkit.NewInputError("delete", "empty filter"))
		assert.True(t, rowkit.IsInputError(err))
		assert.False(t, rowkit.IsInputError(errors.New("other")))
		assert.False(t, rowkit.IsInputError(nil))
	})
}

func TestExecError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &rowkit.ExecError{Table: "students", Op: "insert", Err: errors.New("boom")}
		assert.Equal(t, "rowkit: insert students: boom", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("connection reset")
		err := &rowkit.ExecError{Table: "t", Op: "find", Err: underlying}
		assert.True(t, errors.Is(err, underlying))
		assert.True(t, rowkit.IsExecError(fmt.Errorf("wrap: %w", err)))
		assert.False(t, rowkit.IsExecError(nil))
	})

	t.Run("Constraint", func(t *testing.T) {
		err := &rowkit.ExecError{Table: "t", Op: "insert", Err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}}
		assert.Equal(t, sqlerr.KindUnique, err.Kind())
		assert.True(t, err.IsConstraint())
		assert.True(t, rowkit.IsConstraintError(err))

		plain := &rowkit.ExecError{Table: "t", Op: "insert", Err: errors.New("boom")}
		assert.Equal(t, sqlerr.KindUnknown, plain.Kind())
		assert.False(t, rowkit.IsConstraintError(plain))
		assert.False(t, rowkit.IsConstraintError(&mysql.MySQLError{Number: 1062}))
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := rowkit.NewNotFoundError("students")
		assert.Equal(t, "rowkit: students row not found", err.Error())
		assert.Equal(t, "students", err.Table())
	})

	t.Run("Is", func(t *testing.T) {
		err := rowkit.NewNotFoundError("students")
		assert.True(t, errors.Is(err, rowkit.ErrNotFound))
		assert.False(t, errors.Is(err, sql.ErrInvalidInput))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, rowkit.IsNotFound(rowkit.NewNotFoundError("students")))
		assert.True(t, rowkit.IsNotFound(fmt.Errorf("wrapped: %w", rowkit.NewNotFoundError("students"))))
		assert.False(t, rowkit.IsNotFound(errors.New("other")))
		assert.False(t, rowkit.IsNotFound(nil))
	})
}

func TestRowError(t *testing.T) {
	underlying := errors.New("boom")
	err := &rowkit.RowError{Index: 2, Err: underlying}
	assert.Equal(t, "row 2: boom", err.Error())
	assert.True(t, errors.Is(err, underlying))
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		assert.Nil(t, rowkit.NewAggregateError())
	})

	t.Run("NilErrors", func(t *testing.T) {
		assert.Nil(t, rowkit.NewAggregateError(nil, nil, nil))
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		assert.Equal(t, single, rowkit.NewAggregateError(nil, single, nil))
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := &rowkit.RowError{Index: 0, Err: errors.New("error 1")}
		err2 := &rowkit.RowError{Index: 3, Err: errors.New("error 2")}
		err := rowkit.NewAggregateError(err1, nil, err2)
		require.Error(t, err)

		var agg *rowkit.AggregateError
		require.True(t, errors.As(err, &agg))
		assert.Len(t, agg.Errors, 2)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "[1] row 0: error 1")
		assert.Contains(t, err.Error(), "[2] row 3: error 2")
		assert.True(t, errors.Is(err, err2))

		var row *rowkit.RowError
		require.True(t, errors.As(err, &row))
		assert.Equal(t, 0, row.Index)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "rowkit: no errors", (&rowkit.AggregateError{}).Error())
	})
}

func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = rowkit.NewNotFoundError("students")
		}
	})
	b.Run("IsNotFound", func(b *testing.B) {
		err := fmt.Errorf("wrapped: %w", rowkit.NewNotFoundError("students"))
		for i := 0; i < b.N; i++ {
			_ = rowkit.IsNotFound(err)
		}
	})
}
