package strata

import (
	"sort"

	"github.com/strata-db/strata/dialect"

	sq "github.com/Masterminds/squirrel"
)

// matchNothing is the compiled form of an OR over zero clauses.
var matchNothing = sq.Expr("1 = 0")

// compileWhere turns a where map into a squirrel filter expression against
// the entity's descriptor. Plain entries compile to an AND of equalities
// after coercing each value to the field's semantic type; an Op value (under
// the reserved OpKey or under a field key) injects the operator's clauses
// instead. Compilation is all-or-nothing: the first error aborts and no
// partial filter is returned. Keys are visited in sorted order so the
// generated SQL is deterministic.
func compileWhere(d string, e *EntityDescriptor, where map[string]any) (sq.Sqlizer, error) {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	and := make(sq.And, 0, len(keys))
	for _, k := range keys {
		v := where[k]
		if op, ok := v.(*Op); ok {
			clause, err := compileOp(d, e, op)
			if err != nil {
				return nil, err
			}
			and = append(and, clause)
			continue
		}
		if k == OpKey {
			return nil, &MalformedPredicateError{Reason: "value under the operator key must be an operator node"}
		}
		clause, err := compileEq(d, e, k, v)
		if err != nil {
			return nil, err
		}
		and = append(and, clause)
	}
	if len(and) == 0 {
		return nil, nil
	}
	return and, nil
}

// compileOp compiles a boolean combinator node.
func compileOp(d string, e *EntityDescriptor, op *Op) (sq.Sqlizer, error) {
	switch op.kind {
	case opOr:
		return compileOrMap(d, e, op.terms[0])
	case opOrEach:
		or := make(sq.Or, 0, len(op.terms))
		for _, m := range op.terms {
			and, err := compileAndMap(d, e, m)
			if err != nil {
				return nil, err
			}
			if len(and) == 0 {
				continue
			}
			or = append(or, and)
		}
		if len(or) == 0 {
			return matchNothing, nil
		}
		return or, nil
	case opNot:
		return nil, &MalformedPredicateError{Reason: "the Not operator is reserved and not supported"}
	default:
		return nil, &MalformedPredicateError{Reason: "unknown operator"}
	}
}

// compileOrMap compiles one map to an OR of equalities. Nil values are
// skipped; skipping everything compiles to a clause that matches nothing.
func compileOrMap(d string, e *EntityDescriptor, m map[string]any) (sq.Sqlizer, error) {
	keys := sortedNonNilKeys(m)
	or := make(sq.Or, 0, len(keys))
	for _, k := range keys {
		clause, err := compileEq(d, e, k, m[k])
		if err != nil {
			return nil, err
		}
		or = append(or, clause)
	}
	if len(or) == 0 {
		return matchNothing, nil
	}
	return or, nil
}

// compileAndMap compiles one map to an AND of equalities, skipping nil
// values. The caller decides what an empty result means.
func compileAndMap(d string, e *EntityDescriptor, m map[string]any) (sq.And, error) {
	keys := sortedNonNilKeys(m)
	and := make(sq.And, 0, len(keys))
	for _, k := range keys {
		clause, err := compileEq(d, e, k, m[k])
		if err != nil {
			return nil, err
		}
		and = append(and, clause)
	}
	return and, nil
}

// compileEq compiles one field = value comparison, coercing the value to the
// field's semantic type. A nil (or nil-coerced) value compiles to IS NULL.
// Column names are quoted like every other identifier the executor emits, so
// reserved-word field names work in predicates too.
func compileEq(d string, e *EntityDescriptor, name string, v any) (sq.Sqlizer, error) {
	f, ok := e.Field(name)
	if !ok {
		return nil, &FieldNotFoundError{Entity: e.Name, Field: name}
	}
	info, err := dialect.Get(d)
	if err != nil {
		return nil, err
	}
	coerced, err := coerceValue(d, f, v)
	if err != nil {
		return nil, err
	}
	return sq.Eq{info.Quote(f.Name): coerced}, nil
}

func sortedNonNilKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
