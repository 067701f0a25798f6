package dialect

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Parallel()

	for _, name := range []string{SQLite, MySQL, Postgres} {
		info, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, info.Dialect)
	}

	_, err := Get("oracle")
	assert.Error(t, err)
}

func TestDefaultPorts(t *testing.T) {
	t.Parallel()

	mysql, err := Get(MySQL)
	require.NoError(t, err)
	assert.Equal(t, 3306, mysql.DefaultPort)

	postgres, err := Get(Postgres)
	require.NoError(t, err)
	assert.Equal(t, 5432, postgres.DefaultPort)

	sqlite, err := Get(SQLite)
	require.NoError(t, err)
	assert.Zero(t, sqlite.DefaultPort)
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	postgres, err := Get(Postgres)
	require.NoError(t, err)
	assert.Equal(t, sq.Dollar, postgres.Placeholder)

	for _, name := range []string{SQLite, MySQL} {
		info, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, sq.Question, info.Placeholder, name)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	sqlite, _ := Get(SQLite)
	mysql, _ := Get(MySQL)
	postgres, _ := Get(Postgres)

	assert.Equal(t, "`users`", sqlite.Quote("users"))
	assert.Equal(t, "`users`", mysql.Quote("users"))
	assert.Equal(t, `"users"`, postgres.Quote("users"))
}

func TestAddColumnSQL(t *testing.T) {
	t.Parallel()

	sqlite, _ := Get(SQLite)
	assert.Equal(t,
		"ALTER TABLE `accounts` ADD COLUMN `nickname` TEXT",
		sqlite.AddColumnSQL("accounts", "nickname", "TEXT"),
	)

	postgres, _ := Get(Postgres)
	assert.Equal(t,
		`ALTER TABLE "accounts" ADD COLUMN "nickname" varchar(255)`,
		postgres.AddColumnSQL("accounts", "nickname", "varchar(255)"),
	)
}

func TestExistenceQueries(t *testing.T) {
	t.Parallel()

	sqlite, _ := Get(SQLite)
	query, args := sqlite.TableExistsQuery("accounts")
	assert.Equal(t, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", query)
	assert.Equal(t, []any{"accounts"}, args)

	query, args = sqlite.ColumnExistsQuery("accounts", "name")
	assert.Equal(t, "PRAGMA table_info(`accounts`)", query)
	assert.Nil(t, args)

	mysql, _ := Get(MySQL)
	query, args = mysql.TableExistsQuery("accounts")
	assert.Contains(t, query, "INFORMATION_SCHEMA.TABLES")
	assert.Equal(t, []any{"accounts"}, args)

	query, args = mysql.ColumnExistsQuery("accounts", "name")
	assert.Contains(t, query, "INFORMATION_SCHEMA.COLUMNS")
	assert.Equal(t, []any{"accounts", "name"}, args)

	postgres, _ := Get(Postgres)
	query, args = postgres.TableExistsQuery("accounts")
	assert.Contains(t, query, "pg_tables")
	assert.Equal(t, []any{"accounts"}, args)

	query, args = postgres.ColumnExistsQuery("accounts", "name")
	assert.Contains(t, query, "information_schema.columns")
	assert.Equal(t, []any{"accounts", "name"}, args)
}
