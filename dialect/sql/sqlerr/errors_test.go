package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type sqlState string

func (s sqlState) Error() string    { return "sqlstate " + string(s) }
func (s sqlState) SQLState() string { return string(s) }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("connection refused"), KindUnknown},
		{"mysql_duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 's1' for key 'PRIMARY'"}, KindUnique},
		{"mysql_fk_child", &mysql.MySQLError{Number: 1452}, KindForeignKey},
		{"mysql_fk_parent", &mysql.MySQLError{Number: 1451}, KindForeignKey},
		{"mysql_check", &mysql.MySQLError{Number: 3819}, KindCheck},
		{"mysql_not_null", &mysql.MySQLError{Number: 1048}, KindNotNull},
		{"mysql_other", &mysql.MySQLError{Number: 1146, Message: "UNIQUE constraint failed"}, KindUnknown},
		{"pq_unique", &pq.Error{Code: "23505"}, KindUnique},
		{"pq_fk", &pq.Error{Code: "23503"}, KindForeignKey},
		{"pq_check", &pq.Error{Code: "23514"}, KindCheck},
		{"pq_not_null", &pq.Error{Code: "23502"}, KindNotNull},
		{"pq_other", &pq.Error{Code: "42P01"}, KindUnknown},
		{"sqlstate", sqlState("23505"), KindUnique},
		{"sqlite_unique", errors.New("constraint failed: UNIQUE constraint failed: students.id (1555)"), KindUnique},
		{"sqlite_fk", errors.New("FOREIGN KEY constraint failed"), KindForeignKey},
		{"sqlite_check", errors.New("CHECK constraint failed: balance"), KindCheck},
		{"sqlite_not_null", errors.New("NOT NULL constraint failed: students.name"), KindNotNull},
		{"wrapped", fmt.Errorf("dialect/sql: exec: %w", &mysql.MySQLError{Number: 1062}), KindUnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			assert.Equal(t, tt.want != KindUnknown, IsConstraintError(tt.err))
		})
	}
}

func TestHelpers(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &mysql.MySQLError{Number: 1452}
	check := errors.New("CHECK constraint failed: c")

	assert.True(t, IsUniqueConstraintError(unique))
	assert.False(t, IsUniqueConstraintError(fk))
	assert.True(t, IsForeignKeyConstraintError(fk))
	assert.False(t, IsForeignKeyConstraintError(check))
	assert.True(t, IsCheckConstraintError(check))
	assert.False(t, IsCheckConstraintError(unique))
}
