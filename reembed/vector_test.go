package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)
	assert.InDelta(t, 1.0, vectorNorm(normalized), 1e-6)
}

func TestNormalizeVector_AlreadyUnit(t *testing.T) {
	normalized := NormalizeVector([]float32{1, 0, 0})
	assert.InDelta(t, 1.0, vectorNorm(normalized), 1e-6)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, NormalizeVector(zero))
}

func TestNormalizeVector_Empty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
}

func TestNormalizeVector_PreservesInput(t *testing.T) {
	input := []float32{3, 4}
	NormalizeVector(input)
	assert.Equal(t, []float32{3, 4}, input)
}
