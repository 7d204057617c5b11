package domain

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors:
// the dot product divided by the product of the magnitudes.
//
// A zero-length or zero-magnitude vector has no direction, so its
// similarity against anything is defined as 0.0 rather than a
// division-by-zero fault. Mismatched lengths score the overlapping prefix.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
