package vector

import "math"

// IsValid reports whether v has exactly dim elements and every element is a
// finite number. Vectors failing this check must never enter the cache or a
// similarity computation.
func IsValid(v []float32, dim int) bool {
	if dim <= 0 || len(v) != dim {
		return false
	}
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths, empty
// vectors and zero vectors all yield 0 so that a malformed pair never aborts
// a batch ranking.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
