package strata

import (
	"testing"
	"time"

	"github.com/strata-db/strata/dialect"
	"github.com/strata-db/strata/schema/field"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceBool(t *testing.T) {
	t.Parallel()

	f := field.Field{Name: "active", Type: field.TypeBool}
	tests := []struct {
		in   any
		want any
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"0", false},
		{"false", false},
		{"garbage", false},
		{"", nil},
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{nil, nil},
	}
	for _, tt := range tests {
		got, err := coerceValue(dialect.SQLite, f, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := coerceValue(dialect.SQLite, f, 3.14)
	require.Error(t, err)
	assert.True(t, IsTypeConversion(err))
}

func TestCoerceInt(t *testing.T) {
	t.Parallel()

	f := field.Field{Name: "age", Type: field.TypeInt}
	got, err := coerceValue(dialect.SQLite, f, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = coerceValue(dialect.SQLite, f, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = coerceValue(dialect.SQLite, f, float64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = coerceValue(dialect.SQLite, f, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = coerceValue(dialect.SQLite, f, "not-a-number")
	require.Error(t, err)
	assert.True(t, IsTypeConversion(err))
	var tc *TypeConversionError
	require.ErrorAs(t, err, &tc)
	assert.Equal(t, "age", tc.Field)
	assert.Equal(t, "not-a-number", tc.Value)

	_, err = coerceValue(dialect.SQLite, f, 3.5)
	require.Error(t, err)
}

func TestCoerceUUID(t *testing.T) {
	t.Parallel()

	f := field.Field{Name: "uuid", Type: field.TypeUUID}
	id := uuid.New()

	got, err := coerceValue(dialect.Postgres, f, id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)

	got, err = coerceValue(dialect.Postgres, f, id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)

	got, err = coerceValue(dialect.Postgres, f, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = coerceValue(dialect.Postgres, f, "not-a-uuid")
	require.Error(t, err)
	assert.True(t, IsTypeConversion(err))
}

func TestCoerceTime(t *testing.T) {
	t.Parallel()

	f := field.Field{Name: "created_at", Type: field.TypeTime}
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// SQLite stores the epoch in milliseconds.
	got, err := coerceValue(dialect.SQLite, f, at)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), got)

	got, err = coerceValue(dialect.SQLite, f, at.UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), got)

	// The server dialects bind a time.Time.
	got, err = coerceValue(dialect.MySQL, f, at)
	require.NoError(t, err)
	assert.Equal(t, at, got)

	got, err = coerceValue(dialect.Postgres, f, at.UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, at, got)

	_, err = coerceValue(dialect.SQLite, f, "yesterday")
	require.Error(t, err)
	assert.True(t, IsTypeConversion(err))
}

func TestCoerceString(t *testing.T) {
	t.Parallel()

	f := field.Field{Name: "name", Type: field.TypeString}

	got, err := coerceValue(dialect.SQLite, f, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	got, err = coerceValue(dialect.SQLite, f, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = coerceValue(dialect.SQLite, f, true)
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	got, err = coerceValue(dialect.SQLite, f, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
