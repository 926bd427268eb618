// -----------------------------------------------------------------------------
// WHERE Methods Tests
// -----------------------------------------------------------------------------
// Bu testler, WHERE/HAVING metodlarının ürettiği metni ve bind sırasını
// doğrular. Değerler hiçbir zaman metne gömülmez; sadece placeholder yazılır.
//
// Test edilen metodlar:
// - Where / OrWhere / WhereRaw
// - WhereIn / WhereNotIn
// - WhereBetween / WhereNotBetween
// - WhereNull / WhereNotNull
// - WhereDate, WhereYear, WhereMonth, WhereDay
// - Having / OrHaving / HavingRaw
// -----------------------------------------------------------------------------

package database

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// mustStatement, terminal çağrının hatasız döndüğünü doğrular.
// Terminal çağrının iki dönüş değeri doğrudan verilebilsin diye fonksiyon döndürür:
//
//	stmt := mustStatement(t)(qb.Get("users"))
func mustStatement(t *testing.T) func(*Statement, error) *Statement {
	return func(stmt *Statement, err error) *Statement {
		t.Helper()
		if err != nil {
			t.Fatalf("Failed to build statement: %v", err)
		}
		if stmt == nil {
			t.Fatal("Expected statement, got nil")
		}
		return stmt
	}
}

// assertStatement, SQL metnini ve bind değerlerini karşılaştırır.
func assertStatement(t *testing.T, stmt *Statement, sql string, args []any) {
	t.Helper()
	if stmt.SQL != sql {
		t.Errorf("Expected:\n%s\nGot:\n%s", sql, stmt.SQL)
	}
	if args == nil {
		args = []any{}
	}
	if !reflect.DeepEqual(stmt.Args, args) {
		t.Errorf("Expected args %v, got %v", args, stmt.Args)
	}
	if n := strings.Count(stmt.SQL, "?"); n != len(stmt.Args) {
		t.Errorf("Placeholder count %d does not match %d bind values", n, len(stmt.Args))
	}
	if len(stmt.Types) != len(stmt.Args) {
		t.Errorf("Type signature %q does not match %d bind values", stmt.Types, len(stmt.Args))
	}
}

func TestWhere_AndChain(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("a", "=", 1).Where("b", "=", 2).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE a = ? AND b = ?", []any{1, 2})
	if stmt.Types != "ii" {
		t.Errorf("Expected types ii, got %s", stmt.Types)
	}
}

func TestWhere_DefaultOperator(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("name", "", "john").Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE name = ?", []any{"john"})
}

func TestOrWhere(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.
		Where("role", "=", "admin").
		OrWhere("role", "=", "moderator").
		Get("users", "id", "name"))

	assertStatement(t, stmt, "SELECT id, name FROM users WHERE role = ? OR role = ?", []any{"admin", "moderator"})
}

func TestOrWhere_FirstClauseHasNoConnector(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.OrWhere("a", "=", 1).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE a = ?", []any{1})
}

func TestWhere_InOperatorWithSlice(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("a", "in", []int{1, 2, 3}).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE a IN (?, ?, ?)", []any{1, 2, 3})
}

func TestWhereIn_SQLInjectionPrevention(t *testing.T) {
	qb := NewBuilder(Config{})

	maliciousValues := []any{
		"active",
		"'; DROP TABLE users--",
		"' OR '1'='1",
		"admin' UNION SELECT * FROM passwords--",
	}

	stmt := mustStatement(t)(qb.WhereIn("status", maliciousValues).Get("users"))

	if strings.Contains(stmt.SQL, "DROP TABLE") || strings.Contains(stmt.SQL, "UNION SELECT") {
		t.Errorf("Bind value leaked into SQL text: %s", stmt.SQL)
	}
	assertStatement(t, stmt, "SELECT * FROM users WHERE status IN (?, ?, ?, ?)", maliciousValues)
}

func TestWhereNotIn_BasicUsage(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereNotIn("status", []string{"banned", "deleted"}).Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE status NOT IN (?, ?)", []any{"banned", "deleted"})
}

func TestWhereIn_ScalarValue(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereIn("id", 7).Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE id IN (?)", []any{7})
}

func TestWhereMethods_EmptyArrays(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereIn("status", []any{}).Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE status IN ()", nil)
}

func TestWhereBetween_BasicUsage(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereBetween("age", 18, 65).Get("users", "id", "name", "age"))

	assertStatement(t, stmt, "SELECT id, name, age FROM users WHERE age BETWEEN ? AND ?", []any{18, 65})
}

func TestWhereNotBetween_BasicUsage(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereNotBetween("price", 10.5, 99.9).Get("products"))

	assertStatement(t, stmt, "SELECT * FROM products WHERE price NOT BETWEEN ? AND ?", []any{10.5, 99.9})
	if stmt.Types != "dd" {
		t.Errorf("Expected types dd, got %s", stmt.Types)
	}
}

func TestWhereBetween_InvalidRange(t *testing.T) {
	qb := NewBuilder(Config{})

	_, err := qb.Where("age", "BETWEEN", []int{1, 2, 3}).Get("users")
	if !errors.Is(err, ErrInvalidBetweenRange) {
		t.Fatalf("Expected ErrInvalidBetweenRange, got %v", err)
	}
}

func TestWhereNull_BasicUsage(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.WhereNull("deleted_at").WhereNotNull("email").Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE deleted_at IS NULL AND email IS NOT NULL", nil)
}

func TestWhere_NilValueRendersNull(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("parent_id", "IS", nil).Get("categories"))

	assertStatement(t, stmt, "SELECT * FROM categories WHERE parent_id IS NULL", nil)
}

func TestWhere_NamedNumericType(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("id", "=", accountID(5)).Get("users"))

	assertStatement(t, stmt, "SELECT * FROM users WHERE id = ?", []any{accountID(5)})
	if stmt.Types != "i" {
		t.Errorf("Expected type signature i, got %q", stmt.Types)
	}
	if got := stmt.Debug(); got != "SELECT * FROM users WHERE id = 5" {
		t.Errorf("Unexpected debug rendering: %s", got)
	}
}

func TestWhere_ZeroStringStillBinds(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("flag", "=", "0").Where("count", "=", 0).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE flag = ? AND count = ?", []any{"0", 0})
}

func TestWhere_NoValueSkipsComparison(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("is_active", "=", NoValue).Where("id", ">", 3).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE is_active AND id > ?", []any{3})
}

func TestWhereRaw(t *testing.T) {
	tests := []struct {
		name     string
		build    func(qb *QueryBuilder) *QueryBuilder
		expected string
		args     []any
	}{
		{
			name: "with bindings",
			build: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("status", "=", "open").WhereRaw("(id = ? OR parent_id = ?)", 5, 5)
			},
			expected: "SELECT * FROM tickets WHERE status = ? AND (id = ? OR parent_id = ?)",
			args:     []any{"open", 5, 5},
		},
		{
			name: "without bindings",
			build: func(qb *QueryBuilder) *QueryBuilder {
				return qb.WhereRaw("deleted_at IS NULL")
			},
			expected: "SELECT * FROM tickets WHERE deleted_at IS NULL",
		},
		{
			name: "or raw",
			build: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("a", "=", 1).OrWhereRaw("b > ?", 2)
			},
			expected: "SELECT * FROM tickets WHERE a = ? OR b > ?",
			args:     []any{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewBuilder(Config{})
			stmt := mustStatement(t)(tt.build(qb).Get("tickets"))
			assertStatement(t, stmt, tt.expected, tt.args)
		})
	}
}

func TestWhereDateParts(t *testing.T) {
	tests := []struct {
		name     string
		build    func(qb *QueryBuilder) *QueryBuilder
		expected string
		args     []any
	}{
		{
			name:     "WhereDate",
			build:    func(qb *QueryBuilder) *QueryBuilder { return qb.WhereDate("created_at", "2024-01-15") },
			expected: "SELECT * FROM events WHERE DATE(created_at) = ?",
			args:     []any{"2024-01-15"},
		},
		{
			name:     "WhereYear",
			build:    func(qb *QueryBuilder) *QueryBuilder { return qb.WhereYear("created_at", 2024) },
			expected: "SELECT * FROM events WHERE YEAR(created_at) = ?",
			args:     []any{2024},
		},
		{
			name:     "WhereMonth",
			build:    func(qb *QueryBuilder) *QueryBuilder { return qb.WhereMonth("created_at", 12) },
			expected: "SELECT * FROM events WHERE MONTH(created_at) = ?",
			args:     []any{12},
		},
		{
			name:     "WhereDay",
			build:    func(qb *QueryBuilder) *QueryBuilder { return qb.WhereDay("created_at", 25) },
			expected: "SELECT * FROM events WHERE DAY(created_at) = ?",
			args:     []any{25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewBuilder(Config{})
			stmt := mustStatement(t)(tt.build(qb).Get("events"))
			assertStatement(t, stmt, tt.expected, tt.args)
		})
	}
}

func TestCombinedWhereMethods(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.
		WhereIn("status", []string{"active", "pending"}).
		WhereBetween("age", 18, 65).
		WhereNotNull("email_verified_at").
		WhereYear("created_at", 2024).
		Get("users", "id", "name"))

	assertStatement(t, stmt,
		"SELECT id, name FROM users WHERE status IN (?, ?) AND age BETWEEN ? AND ? AND email_verified_at IS NOT NULL AND YEAR(created_at) = ?",
		[]any{"active", "pending", 18, 65, 2024})
	if stmt.Types != "ssiii" {
		t.Errorf("Expected types ssiii, got %s", stmt.Types)
	}
}

func TestHaving(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.
		Where("status", "=", "paid").
		GroupBy("user_id").
		Having("COUNT(*)", ">", 5).
		OrHaving("SUM(total)", ">=", 1000).
		Get("orders", "user_id", "COUNT(*)"))

	assertStatement(t, stmt,
		"SELECT user_id, COUNT(*) FROM orders WHERE status = ? GROUP BY user_id HAVING COUNT(*) > ? OR SUM(total) >= ?",
		[]any{"paid", 5, 1000})
}

func TestHavingRaw(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.GroupBy("day").HavingRaw("MAX(amount) - MIN(amount) > ?", 10).Get("sales", "day"))

	assertStatement(t, stmt, "SELECT day FROM sales GROUP BY day HAVING MAX(amount) - MIN(amount) > ?", []any{10})
}

func TestWhere_RawFuncValue(t *testing.T) {
	qb := NewBuilder(Config{})

	stmt := mustStatement(t)(qb.Where("created_at", ">", qb.Now("-1d")).Where("hash", "=", qb.Func("SHA1(?)", "x")).Get("t"))

	assertStatement(t, stmt, "SELECT * FROM t WHERE created_at > NOW() - INTERVAL 1 DAY AND hash = SHA1(?)", []any{"x"})
}

// BenchmarkWhereIn benchmarks WhereIn performance.
func BenchmarkWhereIn(b *testing.B) {
	values := make([]any, 100)
	for i := 0; i < 100; i++ {
		values[i] = i
	}

	qb := NewBuilder(Config{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = qb.WhereIn("id", values).Get("users")
	}
}

// BenchmarkWhereBetween benchmarks WhereBetween performance.
func BenchmarkWhereBetween(b *testing.B) {
	qb := NewBuilder(Config{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = qb.WhereBetween("age", 18, 65).Get("users")
	}
}
