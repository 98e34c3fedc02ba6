package collection

import "github.com/vc-labs/vectorcol/filterexpr"

// QueryFilter is the interface the query engine depends on: a payload
// mask plus the ability to attach a synthetic must-not-have-id clause
// when composing recommend filters. The filter expression grammar itself
// is owned externally (§6); FilterExprFilter below is the default,
// concrete implementation.
type QueryFilter interface {
	// Mask returns a boolean acceptance mask over internal indices.
	Mask(payloads []Payload, idToExt []ExternalId) []bool

	// WithMustNotIDs returns a copy of the filter augmented with a
	// must-not-have-id clause for the given ids.
	WithMustNotIDs(ids []ExternalId) QueryFilter
}

// FilterExprFilter adapts a *filterexpr.Filter to the QueryFilter
// interface the engine depends on.
type FilterExprFilter struct {
	Filter *filterexpr.Filter
}

func toPointID(e ExternalId) filterexpr.PointID {
	s, n := e.UniversalKey()
	return filterexpr.PointID{IsStr: e.IsString(), Str: s, Num: n}
}

// Mask implements QueryFilter.
func (f FilterExprFilter) Mask(payloads []Payload, idToExt []ExternalId) []bool {
	rawPayloads := make([]map[string]any, len(payloads))
	for i, p := range payloads {
		rawPayloads[i] = p
	}
	ids := make([]filterexpr.PointID, len(idToExt))
	for i, e := range idToExt {
		ids[i] = toPointID(e)
	}
	return filterexpr.Evaluate(rawPayloads, f.Filter, ids)
}

// WithMustNotIDs implements QueryFilter.
func (f FilterExprFilter) WithMustNotIDs(ids []ExternalId) QueryFilter {
	clone := f.Filter.Clone()
	pointIDs := make([]filterexpr.PointID, len(ids))
	for i, e := range ids {
		pointIDs[i] = toPointID(e)
	}
	clone.AddMustNot(filterexpr.HasID{IDs: pointIDs})
	return FilterExprFilter{Filter: clone}
}

// maskFor evaluates filter over payloads, returning an all-ones mask
// directly when no filter is supplied at all (nil QueryFilter).
func maskFor(filter QueryFilter, payloads []Payload, idToExt []ExternalId) []bool {
	if filter == nil {
		mask := make([]bool, len(payloads))
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	return filter.Mask(payloads, idToExt)
}

// withMustNotIDs augments filter (which may be nil) with a must-not-have-id
// clause, returning a non-nil QueryFilter.
func withMustNotIDs(filter QueryFilter, ids []ExternalId) QueryFilter {
	if filter == nil {
		filter = FilterExprFilter{Filter: &filterexpr.Filter{}}
	}
	return filter.WithMustNotIDs(ids)
}
