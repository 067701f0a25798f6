package strata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/strata-db/strata/dialect"
	entsql "github.com/strata-db/strata/dialect/sql"
	"github.com/strata-db/strata/schema/field"

	sq "github.com/Masterminds/squirrel"
)

// A Record is one row of an entity, keyed by field name. Values carry the
// field's semantic type: string for string and uuid fields, int64 for
// integers, bool for booleans, time.Time for timestamps, nil for NULL.
type Record map[string]any

// String returns the named value as a string, or "" when absent or NULL.
func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// Int64 returns the named value as an int64, or 0 when absent or NULL.
func (r Record) Int64(name string) int64 {
	n, _ := r[name].(int64)
	return n
}

// Bool returns the named value as a bool, or false when absent or NULL.
func (r Record) Bool(name string) bool {
	b, _ := r[name].(bool)
	return b
}

// Time returns the named value as a time.Time, or the zero time when absent
// or NULL.
func (r Record) Time(name string) time.Time {
	t, _ := r[name].(time.Time)
	return t
}

// Find returns the records of the entity matching the options. A nil opts
// selects everything.
func (c *Client) Find(ctx context.Context, entity string, opts *FindOptions) ([]Record, error) {
	e, err := c.provider.entity(entity)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = NewFindOptions()
	}
	if len(opts.attributes) > 0 {
		return nil, ErrProjectionUnsupported
	}
	query, args, err := c.buildSelect(e, opts)
	if err != nil {
		return nil, err
	}
	conn, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows := &entsql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("strata: query %s: %w", entity, err)
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(c.provider.dialect, e, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("strata: query %s: %w", entity, err)
	}
	return records, nil
}

// FindOne is Find with the limit forced to 1. Zero matches return a
// NotFoundError satisfying errors.Is(err, ErrNotFound); it never panics.
// The limit is forced on a copy, so the caller's options stay untouched.
func (c *Client) FindOne(ctx context.Context, entity string, opts *FindOptions) (Record, error) {
	scoped := FindOptions{}
	if opts != nil {
		scoped = *opts
	}
	scoped.limit = 1
	records, err := c.Find(ctx, entity, &scoped)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewNotFoundError(entity)
	}
	return records[0], nil
}

// FindByPK returns the record whose primary key equals pk. The primary-key
// field is the one flagged on the descriptor, falling back to "uuid" then
// "id".
func (c *Client) FindByPK(ctx context.Context, entity string, pk any) (Record, error) {
	e, err := c.provider.entity(entity)
	if err != nil {
		return nil, err
	}
	f, err := e.PrimaryKey()
	if err != nil {
		return nil, err
	}
	rec, err := c.FindOne(ctx, entity, Where(map[string]any{f.Name: pk}))
	if IsNotFound(err) {
		return nil, NewNotFoundErrorWithID(entity, pk)
	}
	return rec, err
}

// FindByField returns the first record whose field equals value.
func (c *Client) FindByField(ctx context.Context, entity, fieldName string, value any) (Record, error) {
	return c.FindOne(ctx, entity, Where(map[string]any{fieldName: value}))
}

// FindAllByField returns every record whose field equals value.
func (c *Client) FindAllByField(ctx context.Context, entity, fieldName string, value any) ([]Record, error) {
	return c.Find(ctx, entity, Where(map[string]any{fieldName: value}))
}

// Create inserts one record inside a transaction scope and returns it with
// the values coerced to their field types.
func (c *Client) Create(ctx context.Context, entity string, values map[string]any) (Record, error) {
	e, err := c.provider.entity(entity)
	if err != nil {
		return nil, err
	}
	info := c.provider.info
	columns := make([]string, 0, len(values))
	binds := make([]any, 0, len(values))
	rec := make(Record, len(values))
	for _, f := range e.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		coerced, err := coerceValue(c.provider.dialect, f, v)
		if err != nil {
			return nil, err
		}
		columns = append(columns, info.Quote(f.Name))
		binds = append(binds, coerced)
		rec[f.Name] = recordValue(c.provider.dialect, f, coerced)
	}
	if len(columns) != len(values) {
		for k := range values {
			if _, ok := e.Field(k); !ok {
				return nil, &FieldNotFoundError{Entity: e.Name, Field: k}
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("strata: create %s with no values", entity)
	}
	query, args, err := sq.Insert(info.Quote(e.Table())).
		Columns(columns...).
		Values(binds...).
		PlaceholderFormat(info.Placeholder).
		ToSql()
	if err != nil {
		return nil, err
	}
	err = c.withTx(ctx, func(conn dialect.ExecQuerier) error {
		if err := conn.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("strata: create %s: %w", entity, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Destroy deletes the record by its primary key inside a transaction scope.
func (c *Client) Destroy(ctx context.Context, entity string, rec Record) error {
	e, err := c.provider.entity(entity)
	if err != nil {
		return err
	}
	f, err := e.PrimaryKey()
	if err != nil {
		return err
	}
	pk, ok := rec[f.Name]
	if !ok || pk == nil {
		return &FieldNotFoundError{Entity: e.Name, Field: f.Name}
	}
	coerced, err := coerceValue(c.provider.dialect, f, pk)
	if err != nil {
		return err
	}
	info := c.provider.info
	query, args, err := sq.Delete(info.Quote(e.Table())).
		Where(sq.Eq{info.Quote(f.Name): coerced}).
		PlaceholderFormat(info.Placeholder).
		ToSql()
	if err != nil {
		return err
	}
	return c.withTx(ctx, func(conn dialect.ExecQuerier) error {
		if err := conn.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("strata: destroy %s: %w", entity, err)
		}
		return nil
	})
}

// buildSelect compiles the options into a SELECT over every declared field.
func (c *Client) buildSelect(e *EntityDescriptor, opts *FindOptions) (string, []any, error) {
	info := c.provider.info
	columns := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		columns[i] = info.Quote(f.Name)
	}
	builder := sq.Select(columns...).
		From(info.Quote(e.Table())).
		PlaceholderFormat(info.Placeholder)
	if len(opts.where) > 0 {
		pred, err := compileWhere(c.provider.dialect, e, opts.where)
		if err != nil {
			return "", nil, err
		}
		if pred != nil {
			builder = builder.Where(pred)
		}
	}
	switch {
	case opts.limit > 0:
		builder = builder.Limit(uint64(opts.limit))
	case opts.skip > 0:
		// SQLite and MySQL reject OFFSET without LIMIT.
		builder = builder.Limit(math.MaxInt64)
	}
	if opts.skip > 0 {
		builder = builder.Offset(uint64(opts.skip))
	}
	return builder.ToSql()
}

// scanRecord scans the current row into a Record, one holder per declared
// field in descriptor order.
func scanRecord(d string, e *EntityDescriptor, rows *entsql.Rows) (Record, error) {
	holders := make([]any, len(e.Fields))
	for i, f := range e.Fields {
		switch f.Type {
		case field.TypeString, field.TypeUUID:
			holders[i] = &entsql.NullString{}
		case field.TypeInt, field.TypeInt64:
			holders[i] = &entsql.NullInt64{}
		case field.TypeBool:
			holders[i] = &entsql.NullBool{}
		case field.TypeTime:
			if d == dialect.SQLite {
				holders[i] = &entsql.NullInt64{}
			} else {
				holders[i] = &entsql.NullTime{}
			}
		default:
			return nil, fmt.Errorf("strata: entity %s field %q has unsupported type %s", e.Name, f.Name, f.Type)
		}
	}
	if err := rows.Scan(holders...); err != nil {
		return nil, fmt.Errorf("strata: scan %s: %w", e.Name, err)
	}
	rec := make(Record, len(e.Fields))
	for i, f := range e.Fields {
		switch h := holders[i].(type) {
		case *entsql.NullString:
			if h.Valid {
				rec[f.Name] = h.String
			} else {
				rec[f.Name] = nil
			}
		case *entsql.NullInt64:
			switch {
			case !h.Valid:
				rec[f.Name] = nil
			case f.Type == field.TypeTime:
				rec[f.Name] = time.UnixMilli(h.Int64).UTC()
			default:
				rec[f.Name] = h.Int64
			}
		case *entsql.NullBool:
			if h.Valid {
				rec[f.Name] = h.Bool
			} else {
				rec[f.Name] = nil
			}
		case *entsql.NullTime:
			if h.Valid {
				rec[f.Name] = h.Time.UTC()
			} else {
				rec[f.Name] = nil
			}
		}
	}
	return rec, nil
}

// recordValue normalizes a coerced bind value back to the Record
// representation, undoing the SQLite epoch encoding for timestamps.
func recordValue(d string, f field.Field, coerced any) any {
	if f.Type == field.TypeTime && d == dialect.SQLite {
		if ms, ok := coerced.(int64); ok {
			return time.UnixMilli(ms).UTC()
		}
	}
	return coerced
}
