package cli

import (
	"bytes"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/rowkit"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rowkit", cmd.Use)

	for _, name := range []string{"find", "count", "insert", "update", "delete"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "dialect", "dsn", "log-level", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	find, _, err := cmd.Find([]string{"find"})
	require.NoError(t, err)
	limit := find.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func newDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "school.db")
	db, err := stdsql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		class_id TEXT,
		current_balance INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)
	return path
}

func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(append(args, "--dialect", "sqlite", "--dsn", dsn))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_SQLite(t *testing.T) {
	dsn := newDatabase(t)

	out, err := run(t, dsn, "insert", "students", `[
		{"id": "s1", "name": "Cleo", "class_id": "c1", "current_balance": 80},
		{"id": "s2", "name": "Ann", "class_id": "c1", "current_balance": 50},
		{"id": "s3", "name": "Bob", "class_id": "c1", "current_balance": 20},
		{"id": "s4", "name": "Dan", "class_id": "c2", "current_balance": 90}
	]`)
	require.NoError(t, err)
	var results []rowkit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 4)
	for i, res := range results {
		assert.EqualValues(t, 1, res.RowsAffected, "row %d", i)
	}
	assert.Equal(t, "s1", results[0].ID)

	out, err = run(t, dsn, "find", "students",
		`{"filter": {"class_id": "c1", "current_balance": {">=": 50}}, "view": ["name"], "options": {"order": {"name": 1}, "limit": 2}}`)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []map[string]any{{"name": "Ann"}, {"name": "Cleo"}}, rows)

	out, err = run(t, dsn, "update", "students", `{"current_balance": {"inc": 5}}`, `"s3"`)
	require.NoError(t, err)
	var res rowkit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.EqualValues(t, 1, res.RowsAffected)

	out, err = run(t, dsn, "find", "students", `{"filter": {"id": "s3"}}`, "--one")
	require.NoError(t, err)
	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.EqualValues(t, 25, row["current_balance"])

	out, err = run(t, dsn, "count", "students", `{"class_id": {"in": []}}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 0}`, out)

	out, err = run(t, dsn, "delete", "students", `{"class_id": "c2"}`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.EqualValues(t, 1, res.RowsAffected)

	out, err = run(t, dsn, "count", "students")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 3}`, out)
}

func TestCommands_NotFound(t *testing.T) {
	dsn := newDatabase(t)
	_, err := run(t, dsn, "find", "students", `{"filter": {"id": "missing"}}`, "--one")
	require.Error(t, err)
	assert.True(t, rowkit.IsNotFound(err))
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestCommands_InputErrors(t *testing.T) {
	dsn := newDatabase(t)
	tests := []struct {
		name string
		args []string
	}{
		{"EmptyChanges", []string{"update", "students", `{}`, `"s1"`}},
		{"MissingIdentifier", []string{"update", "students", `{"name": "x"}`, `null`}},
		{"EmptyDeleteFilter", []string{"delete", "students", `{}`}},
		{"AmbiguousOperator", []string{"find", "students", `{"filter": {"age": {">": 1, "<": 5}}}`}},
		{"InvalidJSON", []string{"find", "students", `{"filter":`}},
		{"NegativeLimit", []string{"find", "students", `{"options": {"limit": -1}}`}},
		{"DeleteLimitOnSQLite", []string{"delete", "students", `"s1"`, "--limit", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dsn, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInputError, ExitCode(err), err.Error())
		})
	}
}

func TestCommands_Constraint(t *testing.T) {
	dsn := newDatabase(t)
	_, err := run(t, dsn, "insert", "students", `{"id": "s1", "name": "Ann"}`)
	require.NoError(t, err)
	_, err = run(t, dsn, "insert", "students", `{"id": "s1", "name": "Ann"}`)
	require.Error(t, err)
	assert.True(t, rowkit.IsConstraintError(err))

	var buf bytes.Buffer
	PrintError(&buf, err)
	assert.Contains(t, buf.String(), "constraint violation: ")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitInputError, ExitCode(rowkit.NewInputError("find", "bad")))
	assert.Equal(t, ExitInputError, ExitCode(usageErrorf("bad")))
}
