package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"nil first", nil, []float32{1, 0}, 0.0},
		{"nil second", []float32{1, 0}, nil, 0.0},
		{"both nil", nil, nil, 0.0},
		{"empty vectors", []float32{}, []float32{}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero norm first", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"zero norm second", []float32{1, 0}, []float32{0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	vectors := [][]float32{
		{0.3, -0.7, 0.64, 0.1},
		{-2, 5, 0.001, 8},
		{1, 1, 1, 1},
		{100, -100, 50, -50},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			score := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, score, float32(-1.0)-1e-6)
			assert.LessOrEqual(t, score, float32(1.0)+1e-6)
		}
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{0.5, 1.5, -0.25}
	b := []float32{1, 3, -0.5} // a * 2
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
}
