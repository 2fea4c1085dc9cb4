package sql

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rowkit/dialect"
)

// TestStatementsGolden pins the exact statements produced for each dialect.
// Run with -update to regenerate testdata/golden.
func TestStatementsGolden(t *testing.T) {
	students := Where(
		C("class_id", Eq("c1")),
		C("current_balance", GTE(50)),
	)
	operators := Where(
		C("deleted_at", IsNull()),
		C("grade", In(1, 2)),
		C("level", In()),
		C("age", Between(18, 20)),
		C("name", Like("ann")),
		C("email", Not(nil)),
		C("status", Not("closed")),
		C("score", LT(10)),
	)
	tests := []struct {
		name    string
		querier func(d string) Querier
		dialect string
	}{
		{
			name:    "select_students_mysql",
			dialect: dialect.MySQL,
			querier: func(d string) Querier {
				return Dialect(d).Select().From("students").Where(students).OrderBy("name", Asc).Limit(2)
			},
		},
		{
			name:    "select_students_postgres",
			dialect: dialect.Postgres,
			querier: func(d string) Querier {
				return Dialect(d).Select().From("students").Where(students).OrderBy("name", Asc).Limit(2)
			},
		},
		{
			name:    "select_operators_sqlite",
			dialect: dialect.SQLite,
			querier: func(d string) Querier {
				return Dialect(d).Select("id", "name").From("students").Where(operators).OrderBy("id", Desc).Offset(10)
			},
		},
		{
			name:    "update_delta_mysql",
			dialect: dialect.MySQL,
			querier: func(d string) Querier {
				return Dialect(d).Update("students").Set("current_balance", Inc(5)).Where(ByID("abc"))
			},
		},
		{
			name:    "update_delta_postgres",
			dialect: dialect.Postgres,
			querier: func(d string) Querier {
				return Dialect(d).Update("students").Set("name", "Ann").Set("current_balance", Dec(5)).Where(ByID("abc"))
			},
		},
		{
			name:    "insert_record_postgres",
			dialect: dialect.Postgres,
			querier: func(d string) Querier {
				return Dialect(d).Insert("students").Record(map[string]any{"name": "Ann", "id": "s1", "class_id": "c1"})
			},
		},
		{
			name:    "delete_limit_mysql",
			dialect: dialect.MySQL,
			querier: func(d string) Querier {
				return Dialect(d).Delete("sessions").Where(Match(map[string]any{"user_id": "u1"})).Limit(1)
			},
		},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.querier(tt.dialect).Query()
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(fmt.Sprintf("%s\n%v\n", query, args)))
		})
	}
}
