package rowkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/rowkit/dialect/sql"
	"github.com/syssam/rowkit/dialect/sql/sqlerr"
)

// ErrNotFound is returned by FindOne when no row matches.
var ErrNotFound = errors.New("rowkit: row not found")

// InputError reports a malformed descriptor. It is returned before any
// statement is sent to the database.
type InputError struct {
	Op     string // Operation (e.g., "find", "insert", "update", "delete")
	Reason string // Human-readable reason
}

// Error returns the error string.
func (e *InputError) Error() string {
	return fmt.Sprintf("rowkit: invalid %s input: %s", e.Op, e.Reason)
}

// Is reports whether target is sql.ErrInvalidInput, so builder and client
// input errors can be matched alike.
func (e *InputError) Is(target error) bool {
	return target == sql.ErrInvalidInput
}

// NewInputError returns a new InputError.
func NewInputError(op, format string, args ...any) *InputError {
	return &InputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsInputError returns true if the error is an InputError.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var e *InputError
	return errors.As(err, &e)
}

// inputError converts a builder error into an InputError.
func inputError(op string, err error) error {
	reason := strings.ReplaceAll(err.Error(), sql.ErrInvalidInput.Error()+": ", "")
	return &InputError{Op: op, Reason: reason}
}

// ExecError wraps an error raised while executing a statement. The driver
// message is preserved and the error is never retried.
type ExecError struct {
	Table string // Target table
	Op    string // Operation (e.g., "find", "insert", "update", "delete")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *ExecError) Error() string {
	return fmt.Sprintf("rowkit: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Kind returns the constraint class of the underlying driver error.
func (e *ExecError) Kind() sqlerr.Kind {
	return sqlerr.Classify(e.Err)
}

// IsConstraint reports whether the statement violated a constraint.
func (e *ExecError) IsConstraint() bool {
	return e.Kind() != sqlerr.KindUnknown
}

// IsExecError returns true if the error is an ExecError.
func IsExecError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecError
	return errors.As(err, &e)
}

// IsConstraintError returns true if the error is an ExecError caused by a
// constraint violation.
func IsConstraintError(err error) bool {
	var e *ExecError
	return errors.As(err, &e) && e.IsConstraint()
}

// NotFoundError represents an error when no row matched a lookup.
type NotFoundError struct {
	table string
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(table string) *NotFoundError {
	return &NotFoundError{table: table}
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rowkit: %s row not found", e.table)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the table that was searched.
func (e *NotFoundError) Table() string {
	return e.table
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// RowError is the failure of a single row of a batch insert.
type RowError struct {
	Index int   // Position of the row in the batch
	Err   error // Underlying error
}

// Error returns the error string.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "rowkit: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("rowkit: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
