package database

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/query-assembler/pkg/journal"
)

func newMock(t *testing.T) (*Executor, sqlmock.Sqlmock, *journal.MemoryJournal, *bytes.Buffer) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	j := journal.NewMemoryJournal(10)
	exec := NewExecutor(db, WithLogger(log.New(&buf, "", 0)), WithJournal(j), WithVerbose(true))
	return exec, mock, j, &buf
}

func TestExecutor_Query(t *testing.T) {
	exec, mock, j, buf := newMock(t)
	qb := NewBuilder(Config{})

	stmt, err := qb.Where("status", "=", "active").Limit(2).Get("users", "id", "name")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name FROM users WHERE status = ? LIMIT 2").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("ann")).
			AddRow(int64(2), []byte("bob")))

	rows, err := exec.Query(context.Background(), stmt)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "ann", rows[0]["name"])
	assert.Equal(t, "bob", rows[1]["name"])
	require.NoError(t, mock.ExpectationsWereMet())

	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stmt.SQL, entries[0].SQL)
	assert.Equal(t, "s", entries[0].Types)
	assert.Equal(t, 1, entries[0].ArgCount)
	assert.Equal(t, "SELECT id, name FROM users WHERE status = 'active' LIMIT 2", entries[0].Debug)
	assert.Empty(t, entries[0].Error)

	assert.Contains(t, buf.String(), "status = 'active'")
}

func TestExecutor_Exec(t *testing.T) {
	exec, mock, _, _ := newMock(t)
	qb := NewBuilder(Config{})

	stmt, err := qb.Insert("users", Data{{"name", "ann"}, {"age", 30}})
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users (`name`, `age`) VALUES (?, ?)").
		WithArgs("ann", 30).
		WillReturnResult(sqlmock.NewResult(42, 1))

	res, err := exec.Exec(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, Result{RowsAffected: 1, LastInsertID: 42}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_ErrorIsJournaled(t *testing.T) {
	exec, mock, j, buf := newMock(t)
	qb := NewBuilder(Config{})

	stmt, err := qb.Where("id", "=", 9).Delete("users")
	require.NoError(t, err)

	boom := errors.New("deadlock found")
	mock.ExpectExec("DELETE FROM users WHERE id = ?").WithArgs(9).WillReturnError(boom)

	_, err = exec.Exec(context.Background(), stmt)
	require.ErrorIs(t, err, boom)

	entries, _ := j.Recent(context.Background(), 1)
	require.Len(t, entries, 1)
	assert.Equal(t, "deadlock found", entries[0].Error)
	assert.Contains(t, buf.String(), "❌")
}

func TestExecutor_EmptyStatement(t *testing.T) {
	exec, _, j, _ := newMock(t)

	sub := NewSubQuery("s", Config{})
	stmt, err := sub.Update("t", Data{{"a", 1}})
	require.NoError(t, err)
	require.Nil(t, stmt)

	_, err = exec.Exec(context.Background(), stmt)
	assert.ErrorIs(t, err, ErrEmptyStatement)
	_, err = exec.Query(context.Background(), &Statement{})
	assert.ErrorIs(t, err, ErrEmptyStatement)

	entries, _ := j.Recent(context.Background(), 0)
	assert.Empty(t, entries)
}

func TestExecutor_RateLimitHonorsContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exec := NewExecutor(db, WithRateLimit(1, 1), WithLogger(log.New(&bytes.Buffer{}, "", 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = exec.Exec(ctx, &Statement{SQL: "UNLOCK TABLES"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_JournalFailureDoesNotFailStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	exec := NewExecutor(db, WithLogger(log.New(&buf, "", 0)), WithJournal(failingJournal{}))

	mock.ExpectExec("UNLOCK TABLES").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = exec.Exec(context.Background(), &Statement{SQL: "UNLOCK TABLES", Args: []any{}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Journal")
}

type failingJournal struct{}

func (failingJournal) Record(context.Context, journal.Entry) error {
	return errors.New("journal down")
}

func (failingJournal) Recent(context.Context, int) ([]journal.Entry, error) {
	return nil, errors.New("journal down")
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	logger := log.New(&bytes.Buffer{}, "", 0)
	ctx := context.Background()
	qb := NewBuilder(Config{})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT * FROM accounts WHERE id = ? FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(int64(1), int64(100)))
	mock.ExpectExec("UPDATE accounts SET `balance` = balance-10 WHERE id = ?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := BeginTransaction(ctx, db, logger)
	require.NoError(t, err)
	exec := tx.Executor()

	stmt, err := qb.Where("id", "=", 1).SelectForUpdate(true).Get("accounts")
	require.NoError(t, err)
	rows, err := exec.Query(ctx, stmt)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	stmt, err = qb.Where("id", "=", 1).Update("accounts", Data{{"balance", qb.Dec(10)}})
	require.NoError(t, err)
	_, err = exec.Exec(ctx, stmt)
	require.NoError(t, err)

	require.NoError(t, tx.Commit())

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err = BeginTransaction(ctx, db, logger)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM sessions WHERE user_id = ?").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err = WithTransaction(ctx, db, logger, func(tx *Transaction) error {
			qb := NewBuilder(Config{})
			stmt, err := qb.Where("user_id", "=", 7).Delete("sessions")
			if err != nil {
				return err
			}
			res, err := tx.Executor().Exec(ctx, stmt)
			assert.Equal(t, int64(3), res.RowsAffected)
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = WithTransaction(ctx, db, logger, func(*Transaction) error { return boom })
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "kaboom", func() {
			_ = WithTransaction(ctx, db, logger, func(*Transaction) error { panic("kaboom") })
		})
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
