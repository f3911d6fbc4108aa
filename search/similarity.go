package search

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors,
// a similarity score in [-1, 1].
//
// Degenerate inputs (nil, empty, mismatched lengths, or zero-norm vectors)
// return 0.0. The function never panics and never divides by zero, so it can
// be called on arbitrary stored vectors without prior validation.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
