package match

import (
	"math"

	"go.uber.org/zap"
)

// Cosine returns the cosine similarity of two embedding vectors. A nil
// vector on either side contributes no signal and yields 0. Mismatched
// dimensions should not happen while the embedding model is held
// constant; if they do, the pair is logged and scored 0 rather than
// failing the team.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) != len(b) {
		zap.L().Warn("match: embedding dimension mismatch",
			zap.Int("len_a", len(a)),
			zap.Int("len_b", len(b)),
		)
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
