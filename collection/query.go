package collection

import (
	"fmt"
	"sort"

	"github.com/vc-labs/vectorcol/distance"
)

// QueryVector is a resolved (name, values) query vector. The wire-level
// shapes the spec describes (a raw sequence, a (name, sequence) pair, a
// {name, vector} object, a bare array) all canonicalize to this one
// typed value; RawVector and NamedVector are the two constructors
// callers use to build one.
type QueryVector struct {
	Name   string
	Values []float32
}

// RawVector builds a query vector against the default (unnamed) vector.
func RawVector(values []float32) QueryVector {
	return QueryVector{Name: DefaultVectorName, Values: values}
}

// NamedVector builds a query vector against a named vector configuration.
func NamedVector(name string, values []float32) QueryVector {
	return QueryVector{Name: name, Values: values}
}

// SearchParams are the inputs to Search.
type SearchParams struct {
	Vector         QueryVector
	Filter         QueryFilter // nil means no filter (all-ones mask)
	Limit          int
	Offset         int
	WithPayload    PayloadProjection
	WithVectors    VectorProjection
	ScoreThreshold *float32
}

// idxOrderedExternalIDs returns every assigned external id in internal
// index order (idx 0, 1, 2, ...), the order a filter mask is indexed by.
func idxOrderedExternalIDs(c *Collection) []ExternalId {
	n := c.ids.len()
	out := make([]ExternalId, n)
	for ext, idx := range c.ids.all() {
		out[idx] = ext
	}
	return out
}

// Search scores query.Values against the named vector's matrix, combines
// the filter mask with the tombstone mask, sorts by score in the metric's
// natural direction, and returns the limit+offset window (§4.E search).
func (c *Collection) Search(params SearchParams) ([]ScoredPoint, error) {
	name := params.Vector.Name
	store, ok := c.vectors[name]
	if !ok {
		return nil, NewCollectionError("Search", fmt.Errorf("%w: unknown vector name %q", ErrInvalidArgument, name))
	}
	kernel := c.kernels[name]

	n := c.ids.len()
	scores, err := kernel.Score(params.Vector.Values, store.matrix(n))
	if err != nil {
		return nil, NewCollectionError("Search", fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}

	idToExt := idxOrderedExternalIDs(c)
	payloadMask := maskFor(params.Filter, c.payloads.rows[:n], idToExt)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	biggerBetter := kernel.Order() == distance.BiggerIsBetter
	sort.SliceStable(order, func(i, j int) bool {
		si, sj := scores[order[i]], scores[order[j]]
		if biggerBetter {
			return si > sj
		}
		return si < sj
	})

	results := make([]ScoredPoint, 0, params.Limit+params.Offset)
	want := params.Limit + params.Offset
	for _, idx := range order {
		if len(results) >= want {
			break
		}
		if !payloadMask[idx] || !c.tombstones.alive(Idx(idx)) {
			continue
		}
		score := scores[idx]
		if params.ScoreThreshold != nil {
			threshold := *params.ScoreThreshold
			if biggerBetter && score < threshold {
				break
			}
			if !biggerBetter && score > threshold {
				break
			}
		}
		ext := idToExt[idx]
		results = append(results, ScoredPoint{
			ID:      ext,
			Score:   score,
			Payload: params.WithPayload.apply(c.payloads.get(Idx(idx))),
			Vectors: params.WithVectors.apply(c, Idx(idx)),
		})
	}

	if params.Offset >= len(results) {
		return []ScoredPoint{}, nil
	}
	return results[params.Offset:], nil
}

// RecommendParams are the inputs to Recommend.
type RecommendParams struct {
	Positive []ExternalId // must be non-empty
	Negative []ExternalId

	Filter QueryFilter
	Limit  int
	Offset int

	WithPayload    PayloadProjection
	WithVectors    VectorProjection
	ScoreThreshold *float32

	// Using names the target vector to score against; "" (the default)
	// is the zero value and a valid name in its own right.
	Using string

	// LookupFrom is the collection example vectors are gathered from;
	// nil means self.
	LookupFrom *Collection

	// LookupVectorName names the vector read from the lookup collection;
	// nil means "same as Using".
	LookupVectorName *string
}

// Recommend scores by the direction "more like the positives, less like
// the negatives": q = 2*mean(positive) - mean(negative), or mean(positive)
// alone with no negatives, then delegates to Search with a synthesized
// must-not-have-id clause excluding the examples themselves (§4.E recommend).
func (c *Collection) Recommend(params RecommendParams) ([]ScoredPoint, error) {
	if len(params.Positive) == 0 {
		return nil, NewCollectionError("Recommend", fmt.Errorf("%w: positive example list must be non-empty", ErrInvalidArgument))
	}

	lookup := params.LookupFrom
	if lookup == nil {
		lookup = c
	}
	lookupVectorName := params.Using
	if params.LookupVectorName != nil {
		lookupVectorName = *params.LookupVectorName
	}
	lookupStore, ok := lookup.vectors[lookupVectorName]
	if !ok {
		return nil, NewCollectionError("Recommend", fmt.Errorf("%w: unknown vector name %q in lookup collection", ErrInvalidArgument, lookupVectorName))
	}

	gather := func(ids []ExternalId) ([][]float32, error) {
		rows := make([][]float32, len(ids))
		for i, id := range ids {
			idx, ok := lookup.ids.resolve(id)
			if !ok {
				return nil, NewCollectionError("Recommend", fmt.Errorf("%w: example id %s not present in lookup collection", ErrNotFound, id.String()))
			}
			rows[i] = lookupStore.row(idx)
		}
		return rows, nil
	}

	positiveRows, err := gather(params.Positive)
	if err != nil {
		return nil, err
	}
	negativeRows, err := gather(params.Negative)
	if err != nil {
		return nil, err
	}

	dim := lookupStore.dim()
	mu := mean(positiveRows, dim)
	q := mu
	if len(negativeRows) > 0 {
		muNeg := mean(negativeRows, dim)
		q = make([]float32, dim)
		for i := range q {
			q[i] = 2*mu[i] - muNeg[i]
		}
	}

	excluded := make([]ExternalId, 0, len(params.Positive)+len(params.Negative))
	excluded = append(excluded, params.Positive...)
	excluded = append(excluded, params.Negative...)
	augmented := withMustNotIDs(params.Filter, excluded)

	return c.Search(SearchParams{
		Vector:         NamedVector(params.Using, q),
		Filter:         augmented,
		Limit:          params.Limit,
		Offset:         params.Offset,
		WithPayload:    params.WithPayload,
		WithVectors:    params.WithVectors,
		ScoreThreshold: params.ScoreThreshold,
	})
}

func mean(rows [][]float32, dim int) []float32 {
	out := make([]float32, dim)
	if len(rows) == 0 {
		return out
	}
	for _, row := range rows {
		for i, v := range row {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float32(len(rows))
	}
	return out
}

// ScrollParams are the inputs to Scroll.
type ScrollParams struct {
	Filter      QueryFilter
	Limit       int
	Offset      *ExternalId // nil means start from the beginning
	WithPayload PayloadProjection
	WithVectors VectorProjection
}

// Scroll lists points in universalKey order (§4.A), independent of score,
// using the limit+1 overflow-detection technique to compute the next
// page's offset (§4.E scroll).
func (c *Collection) Scroll(params ScrollParams) ([]Record, *ExternalId, error) {
	n := c.ids.len()
	if n == 0 {
		return []Record{}, nil, nil
	}

	idToExt := idxOrderedExternalIDs(c)
	payloadMask := maskFor(params.Filter, c.payloads.rows[:n], idToExt)

	sorted := make([]ExternalId, n)
	copy(sorted, idToExt)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	results := make([]Record, 0, params.Limit+1)
	for _, ext := range sorted {
		if params.Offset != nil && ext.Less(*params.Offset) {
			continue
		}
		idx, _ := c.ids.resolve(ext)
		if !payloadMask[idx] || !c.tombstones.alive(idx) {
			continue
		}
		results = append(results, Record{
			ID:      ext,
			Payload: params.WithPayload.apply(c.payloads.get(idx)),
			Vectors: params.WithVectors.apply(c, idx),
		})
		if len(results) == params.Limit+1 {
			break
		}
	}

	if len(results) == params.Limit+1 {
		next := results[params.Limit].ID
		return results[:params.Limit], &next, nil
	}
	return results, nil, nil
}

// Count returns the number of live points matching filter (nil means no
// filter).
func (c *Collection) Count(filter QueryFilter) (int, error) {
	n := c.ids.len()
	idToExt := idxOrderedExternalIDs(c)
	mask := maskFor(filter, c.payloads.rows[:n], idToExt)

	count := 0
	for idx := 0; idx < n; idx++ {
		if mask[idx] && c.tombstones.alive(Idx(idx)) {
			count++
		}
	}
	return count, nil
}

// Retrieve emits one record per requested id that is both known and
// alive, in the caller's input order; unknown or tombstoned ids are
// silently skipped, duplicates are emitted once per occurrence (§4.E
// retrieve).
func (c *Collection) Retrieve(ids []ExternalId, withPayload PayloadProjection, withVectors VectorProjection) []Record {
	out := make([]Record, 0, len(ids))
	for _, ext := range ids {
		idx, ok := c.ids.resolve(ext)
		if !ok || !c.tombstones.alive(idx) {
			continue
		}
		out = append(out, Record{
			ID:      ext,
			Payload: withPayload.apply(c.payloads.get(idx)),
			Vectors: withVectors.apply(c, idx),
		})
	}
	return out
}
