package database

import (
	"testing"
	"time"
)

type stringerID int

func (s stringerID) String() string { return "id-" + string(rune('0'+int(s))) }

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		args     []any
		expected string
	}{
		{
			name:     "no args",
			query:    "SELECT * FROM t",
			expected: "SELECT * FROM t",
		},
		{
			name:     "strings are quoted and escaped",
			query:    "SELECT * FROM t WHERE a = ? AND b = ?",
			args:     []any{"x'y", 2},
			expected: "SELECT * FROM t WHERE a = 'x''y' AND b = 2",
		},
		{
			name:     "null bool float",
			query:    "UPDATE t SET a = ?, b = ?, c = ?",
			args:     []any{nil, true, 1.5},
			expected: "UPDATE t SET a = NULL, b = 1, c = 1.5",
		},
		{
			name:     "question mark inside literal is skipped",
			query:    "SELECT * FROM t WHERE a = '?' AND b = ?",
			args:     []any{1},
			expected: "SELECT * FROM t WHERE a = '?' AND b = 1",
		},
		{
			name:     "missing args leave placeholder",
			query:    "SELECT * FROM t WHERE a = ? AND b = ?",
			args:     []any{1},
			expected: "SELECT * FROM t WHERE a = 1 AND b = ?",
		},
		{
			name:     "time and stringer",
			query:    "INSERT INTO t VALUES (?, ?)",
			args:     []any{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), stringerID(7)},
			expected: "INSERT INTO t VALUES ('2024-01-02 03:04:05', 'id-7')",
		},
		{
			name:     "named scalar types",
			query:    "SELECT ?, ?, ?, ?, ?",
			args:     []any{accountID(5), shardNo(2), ratio(0.5), statusCode("it's"), activeFlag(true)},
			expected: "SELECT 5, 2, 0.5, 'it''s', 1",
		},
		{
			name:     "unknown object",
			query:    "SELECT ?",
			args:     []any{struct{}{}},
			expected: "SELECT [object]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(tt.query, tt.args); got != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, got)
			}
		})
	}
}

func TestStatementDebug_Idempotent(t *testing.T) {
	stmt := &Statement{SQL: "SELECT * FROM t WHERE a = ? AND b IN (?, ?)", Args: []any{"x", 1, 2}}

	first := stmt.Debug()
	second := stmt.Debug()
	if first != second {
		t.Errorf("Debug output changed between calls: %q vs %q", first, second)
	}
	if stmt.String() != first {
		t.Errorf("String must equal Debug")
	}
}

func TestStatementDebug_Nil(t *testing.T) {
	var stmt *Statement
	if stmt.Debug() != "" {
		t.Error("Expected empty debug output for nil statement")
	}
}
