package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ      Type
		expected string
	}{
		{TypeInvalid, "invalid"},
		{TypeString, "string"},
		{TypeUUID, "uuid"},
		{TypeInt, "int"},
		{TypeInt64, "int64"},
		{TypeBool, "bool"},
		{TypeTime, "time"},
		{Type(200), "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.typ.String())
	}
}

func TestTypeValid(t *testing.T) {
	t.Parallel()

	assert.False(t, TypeInvalid.Valid())
	assert.False(t, endTypes.Valid())
	assert.False(t, Type(200).Valid())
	for _, typ := range []Type{TypeString, TypeUUID, TypeInt, TypeInt64, TypeBool, TypeTime} {
		assert.True(t, typ.Valid(), "type %s", typ)
	}
}

func TestTypeNumeric(t *testing.T) {
	t.Parallel()

	assert.True(t, TypeInt.Numeric())
	assert.True(t, TypeInt64.Numeric())
	assert.False(t, TypeString.Numeric())
	assert.False(t, TypeBool.Numeric())
	assert.False(t, TypeTime.Numeric())
}
