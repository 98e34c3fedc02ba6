package collection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc-labs/vectorcol/collection"
)

func mustCollection(t *testing.T, vectors map[string]collection.VectorParams) *collection.Collection {
	t.Helper()
	col, err := collection.NewCollection(context.Background(), collection.CollectionConfig{Vectors: vectors})
	require.NoError(t, err)
	return col
}

// S1 basic: search returns the two closest ids in descending dot-product order.
func TestScenarioS1Basic(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	ctx := context.Background()

	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Vectors: map[string][]float32{"": {1, 0}}},
		{ID: collection.NewNumID(2), Vectors: map[string][]float32{"": {0.9, 0.1}}},
		{ID: collection.NewNumID(3), Vectors: map[string][]float32{"": {0, 1}}},
	}))

	results, err := col.Search(collection.SearchParams{Vector: collection.RawVector([]float32{1, 0}), Limit: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, collection.NewNumID(1), results[0].ID)
	assert.Equal(t, collection.NewNumID(2), results[1].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 0.9, results[1].Score, 1e-6)
}

// S2 threshold: the early-break on score_threshold prunes id 3.
func TestScenarioS2Threshold(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	ctx := context.Background()
	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Vectors: map[string][]float32{"": {1, 0}}},
		{ID: collection.NewNumID(2), Vectors: map[string][]float32{"": {0.9, 0.1}}},
		{ID: collection.NewNumID(3), Vectors: map[string][]float32{"": {0, 1}}},
	}))

	threshold := float32(0.5)
	results, err := col.Search(collection.SearchParams{
		Vector: collection.RawVector([]float32{1, 0}), Limit: 10, ScoreThreshold: &threshold,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, collection.NewNumID(1), results[0].ID)
	assert.Equal(t, collection.NewNumID(2), results[1].ID)
}

// S3 named: cosine similarity of two orthogonal unit vectors along "text" is 0.
func TestScenarioS3Named(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{
		"image": {Size: 2, Distance: collection.DistanceDot},
		"text":  {Size: 2, Distance: collection.DistanceCosine},
	})
	ctx := context.Background()
	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Vectors: map[string][]float32{"image": {1, 0}, "text": {1, 0}}},
	}))

	results, err := col.Search(collection.SearchParams{Vector: collection.NamedVector("text", []float32{0, 1}), Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, collection.NewNumID(1), results[0].ID)
	assert.InDelta(t, 0.0, results[0].Score, 1e-6)
}

// S4 recommend: positives/negatives synthesize a must-not-have-id clause.
func TestScenarioS4Recommend(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	ctx := context.Background()
	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Vectors: map[string][]float32{"": {1, 0}}},
		{ID: collection.NewNumID(2), Vectors: map[string][]float32{"": {0.9, 0.1}}},
		{ID: collection.NewNumID(3), Vectors: map[string][]float32{"": {0, 1}}},
		{ID: collection.NewNumID(4), Vectors: map[string][]float32{"": {-1, 0}}},
	}))

	results, err := col.Recommend(collection.RecommendParams{
		Positive: []collection.ExternalId{collection.NewNumID(1)},
		Negative: []collection.ExternalId{collection.NewNumID(4)},
		Limit:    10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, collection.NewNumID(2), results[0].ID)
	for _, r := range results {
		assert.NotEqual(t, collection.NewNumID(1), r.ID)
		assert.NotEqual(t, collection.NewNumID(4), r.ID)
	}
}

// S5 scroll ordering: integers sort before strings, each in their own order.
func TestScenarioS5ScrollOrdering(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 1, Distance: collection.DistanceDot}})
	ctx := context.Background()

	idA, err := collection.NewStringID("00000000-0000-0000-0000-00000000000a")
	require.NoError(t, err)
	idB, err := collection.NewStringID("00000000-0000-0000-0000-00000000000b")
	require.NoError(t, err)

	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(3), Vectors: map[string][]float32{"": {0}}},
		{ID: idA, Vectors: map[string][]float32{"": {0}}},
		{ID: collection.NewNumID(1), Vectors: map[string][]float32{"": {0}}},
		{ID: idB, Vectors: map[string][]float32{"": {0}}},
		{ID: collection.NewNumID(2), Vectors: map[string][]float32{"": {0}}},
	}))

	records, next, err := col.Scroll(collection.ScrollParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, collection.NewNumID(1), records[0].ID)
	assert.Equal(t, collection.NewNumID(2), records[1].ID)
	assert.Equal(t, collection.NewNumID(3), records[2].ID)
	require.NotNil(t, next)
	assert.Equal(t, idA, *next)

	records2, next2, err := col.Scroll(collection.ScrollParams{Limit: 3, Offset: next})
	require.NoError(t, err)
	require.Len(t, records2, 2)
	assert.Equal(t, idA, records2[0].ID)
	assert.Equal(t, idB, records2[1].ID)
	assert.Nil(t, next2)
}

// S6 payload projection: include drops missing keys, exclude keeps the rest.
func TestScenarioS6PayloadProjection(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 1, Distance: collection.DistanceDot}})
	ctx := context.Background()
	id := collection.NewNumID(1)
	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{
		{ID: id, Payload: collection.Payload{"k": 1, "v": 2}, Vectors: map[string][]float32{"": {0}}},
	}))

	included := col.Retrieve([]collection.ExternalId{id}, collection.IncludePayload([]string{"k", "missing"}), collection.NoVectors())
	require.Len(t, included, 1)
	assert.Equal(t, collection.Payload{"k": 1}, included[0].Payload)

	excluded := col.Retrieve([]collection.ExternalId{id}, collection.ExcludePayload([]string{"k"}), collection.NoVectors())
	require.Len(t, excluded, 1)
	assert.Equal(t, collection.Payload{"v": 2}, excluded[0].Payload)
}

// S7 tombstone reuse: deleting then re-upserting reuses the internal index.
func TestScenarioS7TombstoneReuse(t *testing.T) {
	col := mustCollection(t, map[string]collection.VectorParams{"": {Size: 1, Distance: collection.DistanceDot}})
	ctx := context.Background()
	id := collection.NewNumID(1)

	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{{ID: id, Vectors: map[string][]float32{"": {1}}}}))
	require.NoError(t, col.Delete(ctx, collection.IDListSelector{IDs: []collection.ExternalId{id}}))

	count, err := col.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, col.Upsert(ctx, []collection.UpsertPoint{{ID: id, Vectors: map[string][]float32{"": {2}}}}))
	count, err = col.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, col.Len(), "re-upserting a tombstoned id must not grow the id table")
}

// S8 batch upsert equivalence: batch and list forms produce the same state.
func TestScenarioS8BatchUpsertEquivalence(t *testing.T) {
	ctx := context.Background()

	listCol := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	require.NoError(t, listCol.Upsert(ctx, []collection.UpsertPoint{
		{ID: collection.NewNumID(1), Payload: collection.Payload{"k": "a"}, Vectors: map[string][]float32{"": {1, 0}}},
		{ID: collection.NewNumID(2), Payload: collection.Payload{"k": "b"}, Vectors: map[string][]float32{"": {0, 1}}},
	}))

	batchCol := mustCollection(t, map[string]collection.VectorParams{"": {Size: 2, Distance: collection.DistanceDot}})
	require.NoError(t, batchCol.UpsertBatch(ctx, collection.UpsertBatch{
		IDs:      []collection.ExternalId{collection.NewNumID(1), collection.NewNumID(2)},
		Payloads: []collection.Payload{{"k": "a"}, {"k": "b"}},
		Vectors:  map[string][][]float32{"": {{1, 0}, {0, 1}}},
	}))

	listRecords := listCol.Retrieve([]collection.ExternalId{collection.NewNumID(1), collection.NewNumID(2)}, collection.AllPayload(), collection.AllVectors())
	batchRecords := batchCol.Retrieve([]collection.ExternalId{collection.NewNumID(1), collection.NewNumID(2)}, collection.AllPayload(), collection.AllVectors())
	assert.Equal(t, listRecords, batchRecords)
}
