package dialect

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Info holds the static per-dialect facts the session, query and migration
// layers consult: connection defaults, placeholder style, DDL syntax and the
// schema-introspection query templates.
type Info struct {
	// Dialect is one of SQLite, MySQL or Postgres.
	Dialect string

	// DefaultPort is the conventional server port. Zero for SQLite.
	DefaultPort int

	// Placeholder is the statement placeholder format of the dialect.
	Placeholder sq.PlaceholderFormat

	// LedgerTimeType is the column type used for the migration ledger's
	// executed_at column. SQLite stores an integer epoch, the server
	// dialects use their native timestamp types.
	LedgerTimeType string
}

var infos = map[string]Info{
	SQLite: {
		Dialect:        SQLite,
		Placeholder:    sq.Question,
		LedgerTimeType: "INTEGER",
	},
	MySQL: {
		Dialect:        MySQL,
		DefaultPort:    3306,
		Placeholder:    sq.Question,
		LedgerTimeType: "DATETIME",
	},
	Postgres: {
		Dialect:        Postgres,
		DefaultPort:    5432,
		Placeholder:    sq.Dollar,
		LedgerTimeType: "TIMESTAMP",
	},
}

// Get returns the Info for the given dialect name.
func Get(dialect string) (Info, error) {
	info, ok := infos[dialect]
	if !ok {
		return Info{}, fmt.Errorf("dialect: unsupported dialect %q", dialect)
	}
	return info, nil
}

// Quote quotes an identifier for the dialect.
func (i Info) Quote(ident string) string {
	switch i.Dialect {
	case Postgres:
		return pq.QuoteIdentifier(ident)
	default:
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
}

// AddColumnSQL returns the statement that adds a column to an existing table.
// The syntax is identical across the three dialects today, but callers go
// through this dispatch so a divergence stays a one-line change.
func (i Info) AddColumnSQL(table, column, columnType string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", i.Quote(table), i.Quote(column), columnType)
}

// TableExistsQuery returns the query and arguments that report whether a
// table exists. The query returns at least one row iff the table exists.
func (i Info) TableExistsQuery(table string) (string, []any) {
	switch i.Dialect {
	case MySQL:
		return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?", []any{table}
	case Postgres:
		return "SELECT tablename FROM pg_tables WHERE schemaname = current_schema() AND tablename = $1", []any{table}
	default:
		return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", []any{table}
	}
}

// ColumnExistsQuery returns the query and arguments that report whether a
// column exists. On SQLite the statement is PRAGMA table_info and the caller
// must scan the name column of each row; elsewhere one returned row means
// the column exists.
func (i Info) ColumnExistsQuery(table, column string) (string, []any) {
	switch i.Dialect {
	case MySQL:
		return "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?", []any{table, column}
	case Postgres:
		return "SELECT column_name FROM information_schema.columns WHERE table_name = $1 AND column_name = $2", []any{table, column}
	default:
		return fmt.Sprintf("PRAGMA table_info(%s)", i.Quote(table)), nil
	}
}
