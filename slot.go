package recall

/*
Slot is the general-purpose dynamically-scoped value cell described in
spec.md §4.3 — independent of Graph, for callers that want the same
with_value/get_value/has_value shape for their own ambient state rather
than the one Graph already keeps for its parent-entry tracking.

Graph does not build its own parent cell out of Slot: Graph's hot path
reads g.current directly as a node, and boxing every read through an
any-typed Slot would cost an allocation-free type assertion on every
single edge registration. Slot exists for everyone else.
*/
type Slot struct {
	v     any
	valid bool
}

// WithValue runs body with the slot set to v, restoring whatever value
// (or absence of one) the slot held before once body returns.
func (s *Slot) WithValue(v any, body func()) {
	prevV, prevValid := s.v, s.valid
	s.v, s.valid = v, true
	defer func() { s.v, s.valid = prevV, prevValid }()
	body()
}

// Value returns the slot's current value, if any.
func (s *Slot) Value() (any, bool) {
	if !s.valid {
		return nil, false
	}
	return s.v, true
}

// HasValue reports whether the slot currently holds a value.
func (s *Slot) HasValue() bool { return s.valid }
