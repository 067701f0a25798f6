// Package schema provides schema introspection and additive DDL
// synchronization for the supported SQL dialects.
//
// Synchronization is additive-only: tables and columns are created when
// missing, and nothing is ever dropped. Non-additive changes belong to
// hand-written migrations (see the migrate package).
package schema

import (
	"fmt"

	"github.com/strata-db/strata/dialect"
	"github.com/strata-db/strata/schema/field"
)

// Table schema definition for the synchronizer.
type Table struct {
	Name       string
	Columns    []*Column
	PrimaryKey []*Column
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumn adds a new column to the table, and sets it as the primary key
// if the column is marked as one.
func (t *Table) AddColumn(c *Column) *Table {
	t.Columns = append(t.Columns, c)
	if c.PrimaryKey {
		t.PrimaryKey = append(t.PrimaryKey, c)
	}
	return t
}

// Column returns the column with the given name, if it exists.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports if the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Column schema definition for the synchronizer.
type Column struct {
	Name       string
	Type       field.Type
	PrimaryKey bool
}

// ColumnType returns the column's SQL type for the given dialect.
//
// SQLite leans on type affinity: uuids are stored as text, booleans and
// timestamps as integers (epoch milliseconds for timestamps, matching what
// the executor writes). The server dialects use their native types.
func (c *Column) ColumnType(d string) (string, error) {
	switch d {
	case dialect.SQLite:
		switch c.Type {
		case field.TypeString, field.TypeUUID:
			return "text", nil
		case field.TypeInt, field.TypeInt64, field.TypeBool, field.TypeTime:
			return "integer", nil
		}
	case dialect.MySQL:
		switch c.Type {
		case field.TypeString:
			return "varchar(255)", nil
		case field.TypeUUID:
			return "char(36)", nil
		case field.TypeInt:
			return "int", nil
		case field.TypeInt64:
			return "bigint", nil
		case field.TypeBool:
			return "boolean", nil
		case field.TypeTime:
			return "datetime", nil
		}
	case dialect.Postgres:
		switch c.Type {
		case field.TypeString:
			return "varchar(255)", nil
		case field.TypeUUID:
			return "uuid", nil
		case field.TypeInt:
			return "int", nil
		case field.TypeInt64:
			return "bigint", nil
		case field.TypeBool:
			return "boolean", nil
		case field.TypeTime:
			return "timestamp", nil
		}
	default:
		return "", fmt.Errorf("schema: unsupported dialect %q", d)
	}
	return "", fmt.Errorf("schema: unsupported column type %q for column %q", c.Type, c.Name)
}
