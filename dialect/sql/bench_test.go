package sql

import (
	"testing"

	"github.com/syssam/rowkit/dialect"
)

var dialects = []string{dialect.SQLite, dialect.MySQL, dialect.Postgres}

func BenchmarkInsertBuilder_Record(b *testing.B) {
	record := map[string]any{
		"id": 1, "age": 30, "first_name": "Ariel", "last_name": "Mashraki",
		"nickname": "a8m", "created_at": "2009-11-10 23:00:00",
	}
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, _ = Dialect(d).Insert("users").Record(record).Query()
			}
		})
	}
}

func BenchmarkSelectBuilder_Simple(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, _ = Dialect(d).Select("id", "name", "email").From("users").Query()
			}
		})
	}
}

func BenchmarkSelectBuilder_Complex(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, _ = Dialect(d).Select("id", "name").
					From("users").
					Where(Where(
						C("active", Eq(true)),
						C("role", In("admin", "moderator", "editor")),
						C("age", Between(18, 65)),
						C("name", Like("a")),
						C("deleted_at", IsNull()),
					)).
					OrderBy("created_at", Desc).
					Limit(20).
					Offset(40).
					Query()
			}
		})
	}
}

func BenchmarkUpdateBuilder_Delta(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, _ = Dialect(d).Update("users").
					Set("name", "new name").
					Set("balance", Inc(5)).
					Where(ByID(1)).
					Query()
			}
		})
	}
}

func BenchmarkDeleteBuilder_Match(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, _ = Dialect(d).Delete("sessions").
					Where(Match(map[string]any{"user_id": 1, "device": "web"})).
					Query()
			}
		})
	}
}

func BenchmarkSplice(b *testing.B) {
	query := "UPDATE `t` SET `a` = ?, `b` = ? WHERE `c` = ? AND `d` = '?'"
	params := []Param{Bound{1}, Expr("b + ?", 2), Bound{3}}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Splice(query, params)
	}
}
