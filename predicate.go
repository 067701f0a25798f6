package strata

// OpKey is the reserved where-map key whose value must be an operator node
// built with Or, OrEach or Not. Any other value under this key is a
// MalformedPredicateError at compile time.
const OpKey = "$"

type opKind uint8

const (
	opInvalid opKind = iota
	opOr
	opOrEach
	opNot
)

// An Op is an operator node in a where map. Plain entries of a where map
// compile to an AND of equalities; an Op under the reserved OpKey (or under
// a field key, where the field key is ignored) injects a boolean combinator.
type Op struct {
	kind  opKind
	terms []map[string]any
}

// Or returns an operator that matches rows where any of the map's fields
// equals its value. Entries with a nil value are skipped; if every entry is
// skipped the operator matches nothing. This is an explicit policy, not an
// accident: an OR over zero clauses compiles to a contradiction, never to
// "match everything".
func Or(m map[string]any) *Op {
	return &Op{kind: opOr, terms: []map[string]any{m}}
}

// OrEach returns an operator over a list of maps: the entries of each map
// are ANDed together and the maps are ORed across. Nil-valued entries are
// skipped, a map left empty after skipping is dropped, and dropping every
// map yields an operator that matches nothing.
func OrEach(ms ...map[string]any) *Op {
	return &Op{kind: opOrEach, terms: ms}
}

// Not returns a negation operator. It is reserved: the current compiler
// rejects it with a MalformedPredicateError, but constructing it is allowed
// so predicates can be assembled before the operator set grows.
func Not(m map[string]any) *Op {
	return &Op{kind: opNot, terms: []map[string]any{m}}
}
