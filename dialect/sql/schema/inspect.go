package schema

import (
	"context"
	"fmt"

	"github.com/strata-db/strata/dialect"
	"github.com/strata-db/strata/dialect/sql"
)

// TableExists reports whether the given table exists in the connected
// database. The existence query is dialect-specific: sqlite_master on
// SQLite, INFORMATION_SCHEMA.TABLES on MySQL and pg_tables on Postgres.
func TableExists(ctx context.Context, conn dialect.ExecQuerier, d, table string) (bool, error) {
	info, err := dialect.Get(d)
	if err != nil {
		return false, err
	}
	query, args := info.TableExistsQuery(table)
	return hasRow(ctx, conn, query, args)
}

// ColumnExists reports whether the given column exists on the table. On
// SQLite the PRAGMA table_info rows are scanned for the column name; on the
// server dialects the information-schema query returns a row iff the column
// exists.
func ColumnExists(ctx context.Context, conn dialect.ExecQuerier, d, table, column string) (bool, error) {
	info, err := dialect.Get(d)
	if err != nil {
		return false, err
	}
	query, args := info.ColumnExistsQuery(table, column)
	if d != dialect.SQLite {
		return hasRow(ctx, conn, query, args)
	}
	rows := &sql.Rows{}
	if err := conn.Query(ctx, query, []any{}, rows); err != nil {
		return false, fmt.Errorf("schema: inspect columns of %q: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		// PRAGMA table_info: cid, name, type, notnull, dflt_value, pk.
		var (
			cid, notnull, pk sql.NullInt64
			name, ctype      sql.NullString
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("schema: scan table_info of %q: %w", table, err)
		}
		if name.String == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// hasRow runs the query and reports whether it returned at least one row.
func hasRow(ctx context.Context, conn dialect.ExecQuerier, query string, args []any) (bool, error) {
	rows := &sql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return false, fmt.Errorf("schema: inspect: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	return true, nil
}
