package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/strata-db/strata/dialect"
)

// Create synchronizes the connected database with the given table
// definitions. Missing tables are created, missing columns are added with
// the dialect's ALTER TABLE ... ADD COLUMN statement, and nothing is ever
// dropped or modified in place.
func Create(ctx context.Context, conn dialect.ExecQuerier, d string, tables ...*Table) error {
	info, err := dialect.Get(d)
	if err != nil {
		return err
	}
	for _, t := range tables {
		exists, err := TableExists(ctx, conn, d, t.Name)
		if err != nil {
			return err
		}
		if !exists {
			stmt, err := createTableSQL(info, t)
			if err != nil {
				return err
			}
			if err := conn.Exec(ctx, stmt, []any{}, nil); err != nil {
				return fmt.Errorf("schema: create table %q: %w", t.Name, err)
			}
			continue
		}
		for _, c := range t.Columns {
			exists, err := ColumnExists(ctx, conn, d, t.Name, c.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			ctype, err := c.ColumnType(d)
			if err != nil {
				return err
			}
			stmt := info.AddColumnSQL(t.Name, c.Name, ctype)
			if err := conn.Exec(ctx, stmt, []any{}, nil); err != nil {
				return fmt.Errorf("schema: add column %q.%q: %w", t.Name, c.Name, err)
			}
		}
	}
	return nil
}

// createTableSQL builds the CREATE TABLE statement for the table.
func createTableSQL(info dialect.Info, t *Table) (string, error) {
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("schema: table %q has no columns", t.Name)
	}
	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		ctype, err := c.ColumnType(info.Dialect)
		if err != nil {
			return "", err
		}
		null := "NULL"
		if c.PrimaryKey {
			null = "NOT NULL"
		}
		defs = append(defs, fmt.Sprintf("%s %s %s", info.Quote(c.Name), ctype, null))
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			pk[i] = info.Quote(c.Name)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", info.Quote(t.Name), strings.Join(defs, ", ")), nil
}
