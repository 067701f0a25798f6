package dialect

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDriver struct{}

func (nopDriver) Exec(context.Context, string, any, any) error  { return nil }
func (nopDriver) Query(context.Context, string, any, any) error { return nil }
func (d nopDriver) Tx(context.Context) (Tx, error)              { return NopTx(d), nil }
func (nopDriver) Close() error                                  { return nil }
func (nopDriver) Dialect() string                               { return SQLite }

func TestNopTx(t *testing.T) {
	t.Parallel()

	tx := NopTx(nopDriver{})
	require.NoError(t, tx.Exec(context.Background(), "INSERT", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())
}

func TestDebugDriver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := Debug(nopDriver{}, logger)

	ctx := context.Background()
	require.NoError(t, drv.Exec(ctx, "UPDATE accounts SET name = ?", []any{"alice"}, nil))
	assert.Contains(t, buf.String(), "driver.Exec")
	assert.Contains(t, buf.String(), "UPDATE accounts SET name = ?")

	buf.Reset()
	require.NoError(t, drv.Query(ctx, "SELECT 1", []any{}, nil))
	assert.Contains(t, buf.String(), "driver.Query")

	buf.Reset()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "DELETE FROM accounts", []any{}, nil))
	require.NoError(t, tx.Commit())
	assert.Contains(t, buf.String(), "tx.Exec")
	assert.Contains(t, buf.String(), "tx.Commit")

	tx, err = drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.Contains(t, buf.String(), "tx.Rollback")

	assert.Equal(t, SQLite, drv.Dialect())
}
