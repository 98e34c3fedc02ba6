package collection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc-labs/vectorcol/collection"
	"github.com/vc-labs/vectorcol/filterexpr"
)

func seedSearchCollection(t *testing.T) *collection.Collection {
	t.Helper()
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	ctx := context.Background()
	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Payload: collection.Payload{"kind": "a"}, Vectors: map[string][]float32{"": {1, 0}}},
		{ID: collection.NewNumID(2), Payload: collection.Payload{"kind": "b"}, Vectors: map[string][]float32{"": {0.5, 0.5}}},
		{ID: collection.NewNumID(3), Payload: collection.Payload{"kind": "a"}, Vectors: map[string][]float32{"": {0, 1}}},
	}))
	return col
}

func TestSearchUnknownVectorName(t *testing.T) {
	col := seedSearchCollection(t)
	_, err := col.Search(collection.SearchParams{Vector: collection.NamedVector("nope", []float32{1, 0}), Limit: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, collection.ErrInvalidArgument)
}

func TestSearchScoresNonIncreasingForBiggerIsBetter(t *testing.T) {
	col := seedSearchCollection(t)
	results, err := col.Search(collection.SearchParams{Vector: collection.RawVector([]float32{1, 0}), Limit: 10})
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchWithFilter(t *testing.T) {
	col := seedSearchCollection(t)
	filter := collection.FilterExprFilter{Filter: &filterexpr.Filter{
		Must: []filterexpr.Condition{filterexpr.MatchValue{Key: "kind", Value: "a"}},
	}}
	results, err := col.Search(collection.SearchParams{Vector: collection.RawVector([]float32{1, 0}), Filter: filter, Limit: 10})
	require.NoError(t, err)
	for _, r := range results {
		assert.Contains(t, []collection.ExternalId{collection.NewNumID(1), collection.NewNumID(3)}, r.ID)
	}
}

func TestCountMatchesFilterMask(t *testing.T) {
	col := seedSearchCollection(t)
	filter := collection.FilterExprFilter{Filter: &filterexpr.Filter{
		Must: []filterexpr.Condition{filterexpr.MatchValue{Key: "kind", Value: "a"}},
	}}
	count, err := col.Count(filter)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestScrollEnumeratesSameSetAsCount(t *testing.T) {
	col := seedSearchCollection(t)
	count, err := col.Count(nil)
	require.NoError(t, err)

	records, next, err := col.Scroll(collection.ScrollParams{Limit: 1000})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, records, count)

	seen := map[collection.ExternalId]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "no duplicates")
		seen[r.ID] = true
	}
}

func TestRecommendPositiveOnlyMatchesSearchOnMean(t *testing.T) {
	col := seedSearchCollection(t)

	recResults, err := col.Recommend(collection.RecommendParams{
		Positive: []collection.ExternalId{collection.NewNumID(1), collection.NewNumID(3)},
		Limit:    10,
	})
	require.NoError(t, err)

	mean := []float32{0.5, 0.5}
	searchResults, err := col.Search(collection.SearchParams{Vector: collection.RawVector(mean), Limit: 10})
	require.NoError(t, err)

	var expected []collection.ExternalId
	for _, r := range searchResults {
		if r.ID == collection.NewNumID(1) || r.ID == collection.NewNumID(3) {
			continue
		}
		expected = append(expected, r.ID)
	}

	var got []collection.ExternalId
	for _, r := range recResults {
		got = append(got, r.ID)
	}
	assert.Equal(t, expected, got)
}

func TestRecommendRejectsEmptyPositive(t *testing.T) {
	col := seedSearchCollection(t)
	_, err := col.Recommend(collection.RecommendParams{Limit: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, collection.ErrInvalidArgument)
}

func TestRecommendUnknownExampleID(t *testing.T) {
	col := seedSearchCollection(t)
	_, err := col.Recommend(collection.RecommendParams{
		Positive: []collection.ExternalId{collection.NewNumID(999)},
		Limit:    10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, collection.ErrNotFound)
}

func TestRetrievePreservesOrderAndDuplicates(t *testing.T) {
	col := seedSearchCollection(t)
	ids := []collection.ExternalId{collection.NewNumID(3), collection.NewNumID(1), collection.NewNumID(3)}
	got := col.Retrieve(ids, collection.NoPayload(), collection.NoVectors())
	require.Len(t, got, 3)
	assert.Equal(t, collection.NewNumID(3), got[0].ID)
	assert.Equal(t, collection.NewNumID(1), got[1].ID)
	assert.Equal(t, collection.NewNumID(3), got[2].ID)
}

func TestRetrieveSkipsUnknownIDs(t *testing.T) {
	col := seedSearchCollection(t)
	got := col.Retrieve([]collection.ExternalId{collection.NewNumID(999)}, collection.NoPayload(), collection.NoVectors())
	assert.Empty(t, got)
}
