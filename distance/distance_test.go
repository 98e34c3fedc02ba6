package distance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc-labs/vectorcol/distance"
)

func TestByNameKnownMetrics(t *testing.T) {
	for _, tt := range []struct {
		name  string
		order distance.Order
	}{
		{"Cosine", distance.BiggerIsBetter},
		{"Dot", distance.BiggerIsBetter},
		{"Euclid", distance.SmallerIsBetter},
	} {
		t.Run(tt.name, func(t *testing.T) {
			kernel, ok := distance.ByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.order, kernel.Order())
		})
	}
}

func TestByNameUnknownMetric(t *testing.T) {
	_, ok := distance.ByName("Manhattan")
	assert.False(t, ok)
}

func TestDotScore(t *testing.T) {
	kernel, _ := distance.ByName("Dot")
	scores, err := kernel.Score([]float32{1, 0}, [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1.0, 0.9, 0.0}, scores, 1e-6)
}

func TestCosineScoreOrthogonalIsZero(t *testing.T) {
	kernel, _ := distance.ByName("Cosine")
	scores, err := kernel.Score([]float32{0, 1}, [][]float32{{1, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, scores[0], 1e-6)
}

func TestCosineScoreZeroVectorIsZero(t *testing.T) {
	kernel, _ := distance.ByName("Cosine")
	scores, err := kernel.Score([]float32{0, 0}, [][]float32{{1, 0}})
	require.NoError(t, err)
	assert.Equal(t, float32(0), scores[0])
}

func TestEuclidScoreIsSquared(t *testing.T) {
	kernel, _ := distance.ByName("Euclid")
	scores, err := kernel.Score([]float32{0, 0}, [][]float32{{3, 4}})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, scores[0], 1e-6)
}

func TestScoreDimensionMismatch(t *testing.T) {
	kernel, _ := distance.ByName("Dot")
	_, err := kernel.Score([]float32{1, 0}, [][]float32{{1, 0, 0}})
	assert.Error(t, err)
}
