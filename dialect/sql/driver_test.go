package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/strata-db/strata/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenDB tests the OpenDB function with different dialects.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
		})
	}
}

// TestDialectPrefix verifies that wrapped driver names resolve to the base dialect.
func TestDialectPrefix(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB("postgres-traced", db)
	assert.Equal(t, dialect.Postgres, drv.Dialect())
}

func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("simple_query", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(1, "Alice").
				AddRow(2, "Bob"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT id, name FROM users", []any{}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM users WHERE id = \\$1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT name FROM users WHERE id = $1", []any{1}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT broken").
			WillReturnError(errors.New("syntax error"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT broken", []any{}, rows)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_rows_type", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []any{}, "not rows")
		require.Error(t, err)
	})

	t.Run("invalid_args_type", func(t *testing.T) {
		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT 1", "not a slice", rows)
		require.Error(t, err)
	})
}

func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.MySQL, db)

	t.Run("exec_discard_result", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := drv.Exec(context.Background(), "INSERT INTO users (name) VALUES (?)", []any{"Alice"}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 3))

		var res Result
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, &res)
		require.NoError(t, err)
		affected, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_result_type", func(t *testing.T) {
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, "not a result")
		require.Error(t, err)
	})
}

func TestDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Exec(context.Background(), "UPDATE users SET name = $1", []any{"Bob"}, nil))
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNullScanner(t *testing.T) {
	t.Parallel()

	var s NullString
	n := &NullScanner{S: &s}

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)

	require.NoError(t, n.Scan("hello"))
	assert.True(t, n.Valid)
	assert.Equal(t, "hello", s.String)
}

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(0))

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil))

	snap := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.TotalExecs)
	assert.Equal(t, int64(2), snap.SlowQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}
