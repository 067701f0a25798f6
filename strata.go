// Package strata is a database-agnostic persistence core for SQLite, MySQL
// and PostgreSQL. It exposes a small declarative predicate language compiled
// to dialect-correct SQL, a provider that owns one shared physical session
// per process, additive schema synchronization driven by entity descriptors,
// and a ledger-backed migration runner (see the migrate package).
package strata

import (
	"fmt"

	"github.com/strata-db/strata/schema/field"

	"github.com/go-openapi/inflect"
)

// An EntityDescriptor is the static metadata of one storable entity: its
// name, its ordered fields and their semantic types. Descriptors are built
// once, registered on a Provider before first session use and never mutated
// afterwards. All coercion and predicate compilation consult the descriptor
// instead of runtime introspection.
type EntityDescriptor struct {
	Name   string
	Fields []field.Field
}

// NewEntity returns a descriptor with the given entity name.
func NewEntity(name string, fields ...field.Field) *EntityDescriptor {
	return &EntityDescriptor{Name: name, Fields: fields}
}

// Table returns the table name the entity is stored in, derived from the
// entity name by snake-casing and pluralizing it (Account => accounts,
// AuditEvent => audit_events).
func (e *EntityDescriptor) Table() string {
	return inflect.Tableize(e.Name)
}

// Field returns the field with the given name, if the descriptor declares it.
func (e *EntityDescriptor) Field(name string) (field.Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// PrimaryKey resolves the entity's primary-key field. The field flagged as
// primary key wins; without one the descriptor falls back to a field named
// "uuid", then one named "id". The fallback order is part of the contract.
func (e *EntityDescriptor) PrimaryKey() (field.Field, error) {
	for _, f := range e.Fields {
		if f.PrimaryKey {
			return f, nil
		}
	}
	for _, name := range []string{"uuid", "id"} {
		if f, ok := e.Field(name); ok {
			return f, nil
		}
	}
	return field.Field{}, &FieldNotFoundError{Entity: e.Name, Field: "primary key"}
}

// validate reports descriptor construction errors before registration.
func (e *EntityDescriptor) validate() error {
	if e.Name == "" {
		return fmt.Errorf("strata: entity descriptor without a name")
	}
	if len(e.Fields) == 0 {
		return fmt.Errorf("strata: entity %s has no fields", e.Name)
	}
	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if f.Name == "" {
			return fmt.Errorf("strata: entity %s has an unnamed field", e.Name)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("strata: entity %s field %q has invalid type", e.Name, f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("strata: entity %s declares field %q twice", e.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
