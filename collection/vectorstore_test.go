package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStoreSetAndRow(t *testing.T) {
	store := newVectorStore(3)
	require.NoError(t, store.setRow(0, []float32{1, 2, 3}))
	assert.Equal(t, []float32{1, 2, 3}, store.row(0))
}

func TestVectorStoreDimensionMismatch(t *testing.T) {
	store := newVectorStore(3)
	err := store.setRow(0, []float32{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVectorStoreCapacityGrowsDoublingPlusOne(t *testing.T) {
	store := newVectorStore(1)
	require.NoError(t, store.setRow(0, []float32{1}))
	assert.Len(t, store.data, 1)

	require.NoError(t, store.setRow(1, []float32{2}))
	assert.Len(t, store.data, 3) // 2*1+1

	require.NoError(t, store.setRow(3, []float32{4}))
	assert.Len(t, store.data, 7) // 2*3+1
	assert.Equal(t, 4, store.size)
}

func TestVectorStoreRowsAreCopied(t *testing.T) {
	store := newVectorStore(2)
	values := []float32{1, 2}
	require.NoError(t, store.setRow(0, values))
	values[0] = 99
	assert.Equal(t, float32(1), store.row(0)[0], "setRow must copy, not alias the caller's slice")
}

func TestVectorStoreMatrix(t *testing.T) {
	store := newVectorStore(1)
	require.NoError(t, store.setRow(0, []float32{1}))
	require.NoError(t, store.setRow(1, []float32{2}))

	m := store.matrix(2)
	assert.Len(t, m, 2)
	assert.Equal(t, []float32{1}, m[0])
	assert.Equal(t, []float32{2}, m[1])
}
