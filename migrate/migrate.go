// Package migrate applies hand-written schema and data migrations in
// registration order, tracked by an append-only ledger table. A migration
// that has a ledger row is never run again; one whose ShouldRun reports
// false is skipped without a ledger row; a failing migration is rolled back,
// logged and does not stop the ones after it. Failure containment is a
// deliberate availability trade: process startup proceeds, and the absent
// ledger row makes the failure visible.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/strata-db/strata/dialect"
	"github.com/strata-db/strata/dialect/sql"
	"github.com/strata-db/strata/dialect/sql/schema"

	sq "github.com/Masterminds/squirrel"
)

// LedgerTable is the table recording applied migration ids.
const LedgerTable = "strata_migrations"

// Migration is the contract a registered migration fulfills. Ids must be
// stable and unique; they are the ledger's primary key.
type Migration interface {
	// ID returns the stable unique identifier of the migration.
	ID() string
	// Description returns a human-readable summary stored in the ledger.
	Description() string
	// ShouldRun reports whether the migration applies to the connected
	// database. It is consulted only for migrations not yet in the ledger.
	ShouldRun(ctx context.Context, conn dialect.ExecQuerier) (bool, error)
	// Execute applies the migration. It runs inside a transaction together
	// with its ledger append.
	Execute(ctx context.Context, conn dialect.ExecQuerier) error
}

// Func adapts a function to the Migration interface with an always-true
// ShouldRun.
type Func struct {
	MigrationID string
	Summary     string
	Run         func(ctx context.Context, conn dialect.ExecQuerier) error
}

// ID implements Migration.
func (f Func) ID() string { return f.MigrationID }

// Description implements Migration.
func (f Func) Description() string { return f.Summary }

// ShouldRun implements Migration.
func (f Func) ShouldRun(context.Context, dialect.ExecQuerier) (bool, error) { return true, nil }

// Execute implements Migration.
func (f Func) Execute(ctx context.Context, conn dialect.ExecQuerier) error { return f.Run(ctx, conn) }

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for skip and failure reporting.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// Runner executes registered migrations against one driver. Migrations run
// strictly in registration order, each in its own transaction. Run is
// idempotent within the Runner's lifetime.
type Runner struct {
	drv  dialect.Driver
	info dialect.Info
	log  *slog.Logger

	migrations []Migration

	mu  sync.Mutex
	ran bool
}

// NewRunner returns a Runner for the driver's dialect.
func NewRunner(drv dialect.Driver, migrations []Migration, opts ...Option) (*Runner, error) {
	info, err := dialect.Get(drv.Dialect())
	if err != nil {
		return nil, err
	}
	r := &Runner{
		drv:        drv,
		info:       info,
		log:        slog.Default(),
		migrations: migrations,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run ensures the ledger table and applies the eligible migrations. It
// returns an error only when the ledger itself cannot be prepared or read;
// individual migration failures are rolled back, logged and skipped. A
// second call on the same Runner does nothing.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ran {
		return nil
	}
	if err := r.ensureLedger(ctx); err != nil {
		return err
	}
	for _, m := range r.migrations {
		applied, err := r.applied(ctx, r.drv, m.ID())
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		run, err := m.ShouldRun(ctx, r.drv)
		if err != nil {
			r.log.LogAttrs(ctx, slog.LevelError, "migration should-run check failed",
				slog.String("id", m.ID()),
				slog.Any("error", err),
			)
			continue
		}
		if !run {
			r.log.LogAttrs(ctx, slog.LevelDebug, "migration skipped",
				slog.String("id", m.ID()),
			)
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			r.log.LogAttrs(ctx, slog.LevelError, "migration failed",
				slog.String("id", m.ID()),
				slog.String("description", m.Description()),
				slog.Any("error", err),
			)
			continue
		}
		r.log.LogAttrs(ctx, slog.LevelInfo, "migration applied",
			slog.String("id", m.ID()),
			slog.String("description", m.Description()),
		)
	}
	r.ran = true
	return nil
}

// apply runs one migration and its ledger append inside a transaction.
func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := m.Execute(ctx, tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := r.appendLedger(ctx, tx, m); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	return tx.Commit()
}

// appendLedger records the migration as applied. It re-checks the ledger
// first so two call paths cannot double-insert the same id.
func (r *Runner) appendLedger(ctx context.Context, conn dialect.ExecQuerier, m Migration) error {
	applied, err := r.applied(ctx, conn, m.ID())
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	var executedAt any = time.Now().UTC()
	if r.info.Dialect == dialect.SQLite {
		executedAt = time.Now().UnixMilli()
	}
	query, args, err := sq.Insert(LedgerTable).
		Columns("id", "description", "executed_at").
		Values(m.ID(), m.Description(), executedAt).
		PlaceholderFormat(r.info.Placeholder).
		ToSql()
	if err != nil {
		return err
	}
	if err := conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append ledger row %q: %w", m.ID(), err)
	}
	return nil
}

// applied reports whether the migration id has a ledger row.
func (r *Runner) applied(ctx context.Context, conn dialect.ExecQuerier, id string) (bool, error) {
	query, args, err := sq.Select("id").
		From(LedgerTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(r.info.Placeholder).
		ToSql()
	if err != nil {
		return false, err
	}
	rows := &sql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return false, fmt.Errorf("migrate: read ledger: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	return true, nil
}

// ensureLedger creates the ledger table when absent. The executed_at column
// is an integer epoch on SQLite and a native timestamp elsewhere.
func (r *Runner) ensureLedger(ctx context.Context) error {
	exists, err := schema.TableExists(ctx, r.drv, r.info.Dialect, LedgerTable)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s varchar(255) NOT NULL, %s text NULL, %s %s NULL, PRIMARY KEY (%s))",
		r.info.Quote(LedgerTable),
		r.info.Quote("id"),
		r.info.Quote("description"),
		r.info.Quote("executed_at"), r.info.LedgerTimeType,
		r.info.Quote("id"),
	)
	if err := r.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
		return fmt.Errorf("migrate: create ledger table: %w", err)
	}
	return nil
}
