package strata

// FindOptions describes one query: an optional where map, an optional
// attribute projection, and optional limit/skip. The zero value selects
// everything. Options are assembled with the fluent setters before execution
// and not mutated afterwards.
type FindOptions struct {
	where      map[string]any
	attributes []string
	limit      int
	skip       int
}

// NewFindOptions returns empty options.
func NewFindOptions() *FindOptions {
	return &FindOptions{}
}

// Where returns options with the given where map. Shorthand for
// NewFindOptions().WithWhere(m).
func Where(m map[string]any) *FindOptions {
	return NewFindOptions().WithWhere(m)
}

// WithWhere sets the where map. Plain entries are ANDed equalities; operator
// nodes (Or, OrEach) inject boolean combinators.
func (o *FindOptions) WithWhere(m map[string]any) *FindOptions {
	o.where = m
	return o
}

// WithAttributes sets the attribute projection. Projection is accepted but
// not implemented: executing options that carry one fails with
// ErrProjectionUnsupported instead of silently selecting all fields.
func (o *FindOptions) WithAttributes(attrs ...string) *FindOptions {
	o.attributes = attrs
	return o
}

// WithLimit caps the number of returned rows. Values below one clear the
// limit.
func (o *FindOptions) WithLimit(n int) *FindOptions {
	if n < 0 {
		n = 0
	}
	o.limit = n
	return o
}

// WithSkip skips the first n matching rows. Values below one clear the skip.
func (o *FindOptions) WithSkip(n int) *FindOptions {
	if n < 0 {
		n = 0
	}
	o.skip = n
	return o
}
