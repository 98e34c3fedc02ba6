// Package filterexpr implements the pluggable payload filter evaluator
// the query engine delegates to: filter_mask(payloads, filter, idToExt)
// -> boolean mask. The grammar is owned externally per the engine's
// contract; this package is one concrete, swappable implementation,
// modeled on the must/should/must_not boolean-query shape the reference
// local-collection implementation builds for its recommend must-not-id
// clause.
package filterexpr

// Filter is a boolean query over point payloads and ids: all of Must,
// at least one of Should (when non-empty), none of MustNot.
type Filter struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

// AddMustNot appends a condition to MustNot, the operation the query
// engine needs to synthesize recommend's must-not-have-id clause.
func (f *Filter) AddMustNot(c Condition) {
	f.MustNot = append(f.MustNot, c)
}

// Clone returns a deep-enough copy so callers may mutate MustNot on a
// clone without affecting the caller's original filter.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return &Filter{}
	}
	out := &Filter{
		Must:    append([]Condition(nil), f.Must...),
		Should:  append([]Condition(nil), f.Should...),
		MustNot: append([]Condition(nil), f.MustNot...),
	}
	return out
}
