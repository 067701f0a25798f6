package strata

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("strata: entity not found")

	// ErrTxStarted is returned when attempting to start a new transaction
	// within an existing transaction.
	ErrTxStarted = errors.New("strata: cannot start a transaction within a transaction")

	// ErrProviderClosed is returned when an operation is attempted on a
	// closed provider.
	ErrProviderClosed = errors.New("strata: provider is closed")

	// ErrProviderInitialized is returned when entities or migrations are
	// registered after the shared session has been created.
	ErrProviderInitialized = errors.New("strata: provider already initialized")

	// ErrProjectionUnsupported is returned when FindOptions carries an
	// attribute projection. Partial projection is accepted as an option but
	// not implemented, and it fails closed rather than silently selecting
	// all fields.
	ErrProjectionUnsupported = errors.New("strata: attribute projection is not supported")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the primary key that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("strata: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("strata: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the primary key that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the primary key
// that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// FieldNotFoundError is returned when a predicate, value map or primary-key
// lookup references a field the entity descriptor does not declare.
type FieldNotFoundError struct {
	Entity string
	Field  string
}

// Error returns the error string.
func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("strata: entity %s has no field %q", e.Entity, e.Field)
}

// IsFieldNotFound returns true if the error is a FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	var e *FieldNotFoundError
	return errors.As(err, &e)
}

// TypeConversionError is returned when a value cannot be coerced to the
// semantic type of its target field. It aborts predicate compilation, so a
// failing value never leaves a partially applied filter behind.
type TypeConversionError struct {
	Field string
	Value any
	cause error
}

// Error returns the error string.
func (e *TypeConversionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("strata: cannot convert value %v for field %q: %v", e.Value, e.Field, e.cause)
	}
	return fmt.Sprintf("strata: cannot convert value %v for field %q", e.Value, e.Field)
}

// Unwrap returns the underlying parse error, if any.
func (e *TypeConversionError) Unwrap() error {
	return e.cause
}

// IsTypeConversion returns true if the error is a TypeConversionError.
func IsTypeConversion(err error) bool {
	var e *TypeConversionError
	return errors.As(err, &e)
}

// MalformedPredicateError is returned at compile time when the reserved
// operator key carries anything but an operator node, or when an operator
// node is not supported by the compiler.
type MalformedPredicateError struct {
	Reason string
}

// Error returns the error string.
func (e *MalformedPredicateError) Error() string {
	return "strata: malformed predicate: " + e.Reason
}

// IsMalformedPredicate returns true if the error is a MalformedPredicateError.
func IsMalformedPredicate(err error) bool {
	var e *MalformedPredicateError
	return errors.As(err, &e)
}
