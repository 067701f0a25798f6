// Package dialect provides the database dialect abstraction for strata.
//
// This package defines the interfaces and types used for database-specific
// operations, allowing strata to target multiple SQL backends through one
// abstraction.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string, which is also the
// database/sql driver name the dialect is linked against:
//
//	dialect.SQLite   = "sqlite"   (modernc.org/sqlite)
//	dialect.MySQL    = "mysql"    (github.com/go-sql-driver/mysql)
//	dialect.Postgres = "postgres" (github.com/lib/pq)
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback, and the
// ExecQuerier interface is implemented by both Driver and Tx.
//
// # Dialect Descriptors
//
// Info carries the static facts that differ per dialect: default ports,
// placeholder style, column-add DDL and the schema-introspection query
// templates. Config describes a connection in dialect-neutral terms and
// resolves to a driver DSN.
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/strata-db/strata/dialect"
//	    "github.com/strata-db/strata/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: the database/sql driver implementation
//   - dialect/sql/schema: schema introspection and additive DDL sync
package dialect
