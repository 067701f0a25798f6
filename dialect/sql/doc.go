// Package sql implements the dialect.Driver interface on top of the
// standard database/sql package.
//
// It wraps a *sql.DB (or *sql.Tx) with the Exec/Query/Tx surface the rest of
// strata consumes, and provides the optional StatsDriver wrapper for query
// statistics and slow-query detection.
//
// # Opening a Driver
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// SQLite drivers are capped at one physical connection, since the process
// shares a single session and pragma tuning applies per connection.
//
// # Statistics
//
//	drv, stats, err := sql.OpenWithStats(dialect.Postgres, dsn,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
package sql
