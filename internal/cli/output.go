package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/syssam/rowkit"
)

// Exit codes for CLI commands.
const (
	ExitSuccess    = 0 // Successful execution
	ExitFailure    = 1 // Execution failure reported by the database
	ExitInputError = 2 // Malformed descriptor or command line
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case rowkit.IsInputError(err), isUsageError(err):
		return ExitInputError
	default:
		return ExitFailure
	}
}

// UsageError reports a malformed command line argument.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

func isUsageError(err error) bool {
	var e *UsageError
	return errors.As(err, &e)
}

// PrintError writes err to w, highlighting its kind.
func PrintError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	switch {
	case rowkit.IsInputError(err), isUsageError(err):
		label = color.New(color.FgYellow, color.Bold)
		label.Fprint(w, "rejected: ")
	case rowkit.IsConstraintError(err):
		label.Fprint(w, "constraint violation: ")
	case rowkit.IsNotFound(err):
		label.Fprint(w, "not found: ")
	default:
		label.Fprint(w, "error: ")
	}
	fmt.Fprintln(w, err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
