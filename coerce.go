package strata

import (
	"strconv"
	"strings"
	"time"

	"github.com/strata-db/strata/dialect"
	"github.com/strata-db/strata/schema/field"

	"github.com/google/uuid"
)

// coerceValue converts v to the semantic type of the field before it is
// compared or stored. The rules mirror what the executor writes:
//
//   - nil and the empty string coerce to nil (compared as IS NULL).
//   - uuid fields accept uuid.UUID or a parseable string; the normalized
//     string form is used as the bind value.
//   - integer fields accept Go integers, floats with no fractional part and
//     decimal strings.
//   - boolean fields parse strings as true iff "1" or case-insensitive
//     "true"; every other token is false.
//   - timestamp fields accept time.Time or an integer epoch in milliseconds.
//     On SQLite the bind value is the epoch integer, on the server dialects
//     a time.Time.
//
// A value that cannot be converted returns a TypeConversionError naming the
// field and the offending value.
func coerceValue(d string, f field.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}
	switch f.Type {
	case field.TypeString:
		return coerceString(f, v)
	case field.TypeUUID:
		return coerceUUID(f, v)
	case field.TypeInt, field.TypeInt64:
		return coerceInt(f, v)
	case field.TypeBool:
		return coerceBool(f, v)
	case field.TypeTime:
		return coerceTime(d, f, v)
	}
	return nil, &TypeConversionError{Field: f.Name, Value: v}
}

func coerceString(f field.Field, v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case uuid.UUID:
		return v.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return stringify(v), nil
	}
	return nil, &TypeConversionError{Field: f.Name, Value: v}
}

func coerceUUID(f field.Field, v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, &TypeConversionError{Field: f.Name, Value: v, cause: err}
		}
		return id.String(), nil
	case []byte:
		return coerceUUID(f, string(v))
	}
	return nil, &TypeConversionError{Field: f.Name, Value: v}
}

func coerceInt(f field.Field, v any) (any, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, &TypeConversionError{Field: f.Name, Value: v}
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &TypeConversionError{Field: f.Name, Value: v, cause: err}
		}
		return n, nil
	}
	return nil, &TypeConversionError{Field: f.Name, Value: v}
}

func coerceBool(f field.Field, v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return v == "1" || strings.EqualFold(v, "true"), nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	}
	return nil, &TypeConversionError{Field: f.Name, Value: v}
}

func coerceTime(d string, f field.Field, v any) (any, error) {
	var t time.Time
	switch v := v.(type) {
	case time.Time:
		t = v
	case int64:
		t = time.UnixMilli(v)
	case int:
		t = time.UnixMilli(int64(v))
	case string:
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &TypeConversionError{Field: f.Name, Value: v, cause: err}
		}
		t = time.UnixMilli(ms)
	default:
		return nil, &TypeConversionError{Field: f.Name, Value: v}
	}
	if d == dialect.SQLite {
		return t.UnixMilli(), nil
	}
	return t.UTC(), nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return ""
}
