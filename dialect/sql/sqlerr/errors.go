// Package sqlerr classifies errors returned by database drivers.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Kind is the class of a driver error.
type Kind string

// Error kinds reported by Classify.
const (
	KindUnknown    Kind = "unknown"
	KindUnique     Kind = "unique"
	KindForeignKey Kind = "foreign_key"
	KindCheck      Kind = "check"
	KindNotNull    Kind = "not_null"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlBadNull                = 1048
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// sqlStateError is implemented by drivers exposing SQLSTATE codes (pgx).
type sqlStateError interface {
	SQLState() string
}

// Classify returns the constraint class of err, or KindUnknown.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return KindUnique
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return KindForeignKey
		case mysqlCheckConstraintViolate:
			return KindCheck
		case mysqlBadNull:
			return KindNotNull
		}
		return KindUnknown
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgKind(string(pqErr.Code))
	}
	var stErr sqlStateError
	if errors.As(err, &stErr) {
		return pgKind(stErr.SQLState())
	}
	// SQLite drivers report constraint failures in the message only.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return KindUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return KindForeignKey
	case strings.Contains(msg, "CHECK constraint failed"):
		return KindCheck
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return KindNotNull
	}
	return KindUnknown
}

func pgKind(code string) Kind {
	switch code {
	case pgUniqueViolation:
		return KindUnique
	case pgForeignKeyViolation:
		return KindForeignKey
	case pgCheckViolation:
		return KindCheck
	case pgNotNullViolation:
		return KindNotNull
	}
	return KindUnknown
}

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return Classify(err) != KindUnknown
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	return Classify(err) == KindUnique
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return Classify(err) == KindForeignKey
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	return Classify(err) == KindCheck
}
