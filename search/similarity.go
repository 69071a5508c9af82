package search

import (
	"fmt"
	"math"

	"github.com/poiesic/kbsearch/core"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|), computed in float64.
// Vectors of different lengths fail with core.ErrDimensionMismatch. If either
// vector has zero norm the similarity is 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", core.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// IsZeroVector reports whether v has no non-zero component.
// Such vectors carry no signal and are excluded from ranking.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
