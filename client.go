package strata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/strata-db/strata/dialect"
	entsql "github.com/strata-db/strata/dialect/sql"
	"github.com/strata-db/strata/dialect/sql/schema"
	"github.com/strata-db/strata/migrate"
)

// sqlitePragmas are issued once per provider lifetime, right after the
// physical SQLite session is created. They run in autocommit on the pooled
// single connection (SQLite drivers are capped at one open connection), so
// every later statement sees the tuned connection.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger the provider and its migration runner use.
func WithLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) { p.log = l }
}

// WithDebug wraps the physical driver with dialect.Debug, logging every
// statement at debug level.
func WithDebug() ProviderOption {
	return func(p *Provider) { p.debug = true }
}

// WithStats wraps the physical driver with a StatsDriver so every statement
// on the shared session is counted. Read the counters with Provider.Stats.
func WithStats(opts ...entsql.StatsOption) ProviderOption {
	return func(p *Provider) {
		p.collectStats = true
		p.statsOpts = opts
	}
}

// A Provider owns exactly one physical database session, created lazily on
// first use. Entity descriptors and migrations are registered before that
// first use; session creation then tunes SQLite pragmas, synchronizes the
// additive schema for every registered entity and runs the migration runner,
// all under the provider's lock. Every Client handed out shares the one
// session.
type Provider struct {
	dialect      string
	dsn          string
	info         dialect.Info
	log          *slog.Logger
	debug        bool
	collectStats bool
	statsOpts    []entsql.StatsOption

	mu         sync.Mutex
	entities   map[string]*EntityDescriptor
	order      []string
	migrations []migrate.Migration
	drv        dialect.Driver
	statsDrv   *entsql.StatsDriver
	closed     bool
}

// Open returns a provider for the connection config.
func Open(cfg *dialect.Config, opts ...ProviderOption) (*Provider, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	return OpenDialect(cfg.Dialect, dsn, opts...)
}

// OpenDialect returns a provider for an explicit dialect and DSN.
func OpenDialect(d, dsn string, opts ...ProviderOption) (*Provider, error) {
	info, err := dialect.Get(d)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		dialect:  d,
		dsn:      dsn,
		info:     info,
		log:      slog.Default(),
		entities: make(map[string]*EntityDescriptor),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dialect returns the provider's dialect name.
func (p *Provider) Dialect() string {
	return p.dialect
}

// Register adds an entity descriptor. Registration must precede first
// session use; afterwards it fails with ErrProviderInitialized.
func (p *Provider) Register(e *EntityDescriptor) error {
	if err := e.validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drv != nil {
		return ErrProviderInitialized
	}
	if _, ok := p.entities[e.Name]; ok {
		return fmt.Errorf("strata: entity %s registered twice", e.Name)
	}
	p.entities[e.Name] = e
	p.order = append(p.order, e.Name)
	return nil
}

// RegisterMigration adds a migration to run at session creation. Like
// Register, it must precede first session use.
func (p *Provider) RegisterMigration(m migrate.Migration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drv != nil {
		return ErrProviderInitialized
	}
	p.migrations = append(p.migrations, m)
	return nil
}

// RegisterMigrations adds migrations in the given order.
func (p *Provider) RegisterMigrations(ms ...migrate.Migration) error {
	for _, m := range ms {
		if err := p.RegisterMigration(m); err != nil {
			return err
		}
	}
	return nil
}

// Client returns a logical handle on the shared session. Clients are cheap;
// each caller should hold its own so scoped transactions do not overlap.
func (p *Provider) Client() *Client {
	return &Client{provider: p}
}

// TestConnection verifies the session is reachable with a SELECT 1 probe.
func (p *Provider) TestConnection(ctx context.Context) error {
	drv, err := p.session(ctx)
	if err != nil {
		return err
	}
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, "SELECT 1", []any{}, rows); err != nil {
		return fmt.Errorf("strata: test connection: %w", err)
	}
	return rows.Close()
}

// Close releases the physical session and marks the provider closed for
// good. It is the process-shutdown path; Client.Close never reaches here.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.drv == nil {
		return nil
	}
	drv := p.drv
	p.drv = nil
	return drv.Close()
}

// Stats returns a snapshot of the shared session's query statistics. The
// second result is false when the provider was not opened with WithStats or
// the session has not been created yet.
func (p *Provider) Stats() (entsql.StatsSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statsDrv == nil {
		return entsql.StatsSnapshot{}, false
	}
	return p.statsDrv.QueryStats().Stats(), true
}

// session returns the shared driver, creating it on first use. Creation,
// pragma tuning, schema synchronization and the migration run all happen
// under the provider lock, so concurrent first callers observe a fully
// initialized session.
func (p *Provider) session(ctx context.Context) (dialect.Driver, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrProviderClosed
	}
	if p.drv != nil {
		return p.drv, nil
	}
	drv, err := p.initSession(ctx)
	if err != nil {
		return nil, err
	}
	p.drv = drv
	return drv, nil
}

func (p *Provider) initSession(ctx context.Context) (dialect.Driver, error) {
	sqlDrv, err := entsql.Open(p.dialect, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("strata: open %s session: %w", p.dialect, err)
	}
	var drv dialect.Driver = sqlDrv
	var statsDrv *entsql.StatsDriver
	if p.collectStats {
		statsDrv = entsql.NewStatsDriver(sqlDrv, p.statsOpts...)
		drv = statsDrv
	}
	if p.debug {
		drv = dialect.Debug(drv, p.log)
	}
	// initSession runs at most once per provider (the session is created once
	// and Close is permanent), so the pragmas run exactly once per session.
	if p.dialect == dialect.SQLite {
		for _, pragma := range sqlitePragmas {
			if err := drv.Exec(ctx, pragma, []any{}, nil); err != nil {
				drv.Close()
				return nil, fmt.Errorf("strata: apply %q: %w", pragma, err)
			}
		}
	}
	if err := schema.Create(ctx, drv, p.dialect, p.tables()...); err != nil {
		drv.Close()
		return nil, fmt.Errorf("strata: synchronize schema: %w", err)
	}
	runner, err := migrate.NewRunner(drv, p.migrations, migrate.WithLogger(p.log))
	if err != nil {
		drv.Close()
		return nil, err
	}
	if err := runner.Run(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("strata: run migrations: %w", err)
	}
	p.statsDrv = statsDrv
	return drv, nil
}

// tables builds the schema synchronizer's table model from the registered
// descriptors, in registration order.
func (p *Provider) tables() []*schema.Table {
	tables := make([]*schema.Table, 0, len(p.order))
	for _, name := range p.order {
		e := p.entities[name]
		t := schema.NewTable(e.Table())
		for _, f := range e.Fields {
			t.AddColumn(&schema.Column{Name: f.Name, Type: f.Type, PrimaryKey: f.PrimaryKey})
		}
		tables = append(tables, t)
	}
	return tables
}

// entity looks up a registered descriptor.
func (p *Provider) entity(name string) (*EntityDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entities[name]
	if !ok {
		return nil, fmt.Errorf("strata: entity %s is not registered", name)
	}
	return e, nil
}

// A Client is a logical handle on the provider's shared session. It tracks
// at most one scoped transaction of its own; closing the client rolls back
// only that transaction and never touches the shared session.
type Client struct {
	provider *Provider

	mu sync.Mutex
	tx dialect.Tx
}

// Tx starts a scoped transaction on the shared session. Nested transactions
// are rejected with ErrTxStarted; callers commit or roll back through the
// returned handle, or rely on Close to roll back.
func (c *Client) Tx(ctx context.Context) (dialect.Tx, error) {
	drv, err := c.provider.session(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return nil, ErrTxStarted
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("strata: begin transaction: %w", err)
	}
	c.tx = &clientTx{Tx: tx, client: c}
	return c.tx, nil
}

// Close rolls back the client's own open transaction, if any. The shared
// physical session stays up; Provider.Close is the teardown path.
func (c *Client) Close() error {
	c.mu.Lock()
	tx := c.tx
	c.mu.Unlock()
	if tx == nil {
		return nil
	}
	return tx.Rollback()
}

// conn returns the execution target for one statement: the client's open
// transaction when there is one, otherwise the shared autocommit session.
func (c *Client) conn(ctx context.Context) (dialect.ExecQuerier, error) {
	c.mu.Lock()
	tx := c.tx
	c.mu.Unlock()
	if tx != nil {
		return tx, nil
	}
	return c.provider.session(ctx)
}

// withTx runs fn in a transaction scope. An already-open client transaction
// is reused and left open for its owner to finish; otherwise a fresh
// transaction is begun and committed, or rolled back if fn fails.
func (c *Client) withTx(ctx context.Context, fn func(conn dialect.ExecQuerier) error) error {
	c.mu.Lock()
	tx := c.tx
	c.mu.Unlock()
	if tx != nil {
		return fn(tx)
	}
	drv, err := c.provider.session(ctx)
	if err != nil {
		return err
	}
	fresh, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("strata: begin transaction: %w", err)
	}
	if err := fn(fresh); err != nil {
		if rerr := fresh.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := fresh.Commit(); err != nil {
		return fmt.Errorf("strata: commit transaction: %w", err)
	}
	return nil
}

// clientTx detaches itself from the owning client on commit or rollback so
// the client can start a new scoped transaction afterwards.
type clientTx struct {
	dialect.Tx
	client *Client
	done   bool
}

func (t *clientTx) Commit() error {
	t.detach()
	return t.Tx.Commit()
}

func (t *clientTx) Rollback() error {
	t.detach()
	return t.Tx.Rollback()
}

func (t *clientTx) detach() {
	t.client.mu.Lock()
	defer t.client.mu.Unlock()
	if !t.done {
		t.done = true
		t.client.tx = nil
	}
}
