// Package field defines the semantic field types and field descriptors used
// by entity schemas. Every storable entity field carries one of the types
// below; predicate compilation, value coercion and DDL generation all consult
// this metadata instead of runtime reflection.
package field

// A Type represents the semantic type of an entity field.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeString
	TypeUUID
	TypeInt
	TypeInt64
	TypeBool
	TypeTime
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeUUID:    "uuid",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeBool:    "bool",
	TypeTime:    "time",
}

// String returns the string representation of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a valid field type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeInt64
}

// A Field describes one storable entity field.
type Field struct {
	// Name is the column name of the field.
	Name string

	// Type is the semantic type of the field.
	Type Type

	// PrimaryKey reports whether this field is the entity's primary key.
	PrimaryKey bool
}
