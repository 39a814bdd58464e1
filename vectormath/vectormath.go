package vectormath

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyInput is returned by Aggregate when there are no vectors to
// combine. Callers must handle it before persisting anything.
var ErrEmptyInput = errors.New("vectormath: no vectors to aggregate")

// Policy selects how Aggregate combines vectors.
type Policy string

const (
	// PolicyMean is the componentwise arithmetic mean. It is
	// order-independent and is the default.
	PolicyMean Policy = "mean"

	// PolicySimilarityWeighted starts from the first vector and folds each
	// subsequent vector in, weighted by its cosine similarity to the running
	// accumulator, normalizing the final result. It is order-dependent and
	// self-reinforcing: vectors close to the running centroid count for
	// more, so the result can drift with presentation order. Kept only for
	// parity with deployments that already aggregated profiles this way.
	PolicySimilarityWeighted Policy = "similarity_weighted"
)

// Normalize returns v scaled to unit Euclidean length. The zero vector is
// returned unchanged rather than producing NaNs.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1]. It returns 0
// when the lengths differ or either vector has zero norm.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
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

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Aggregate combines vectors into one representative vector under the given
// policy. All inputs must share the same length. The mean result is NOT
// normalized; the similarity-weighted result is.
func Aggregate(vectors [][]float32, policy Policy) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vectormath: vector %d has length %d, want %d", i, len(v), dim)
		}
	}

	switch policy {
	case PolicyMean, "":
		return mean(vectors, dim), nil
	case PolicySimilarityWeighted:
		return similarityWeighted(vectors, dim), nil
	default:
		return nil, fmt.Errorf("vectormath: unknown aggregation policy %q", policy)
	}
}

func mean(vectors [][]float32, dim int) []float32 {
	acc := make([]float64, dim)
	for _, v := range vectors {
		for i, x := range v {
			acc[i] += float64(x)
		}
	}
	out := make([]float32, dim)
	n := float64(len(vectors))
	for i, x := range acc {
		out[i] = float32(x / n)
	}
	return out
}

func similarityWeighted(vectors [][]float32, dim int) []float32 {
	acc := make([]float32, dim)
	copy(acc, vectors[0])

	for _, v := range vectors[1:] {
		sim := CosineSimilarity(acc, v)
		for i, x := range v {
			acc[i] += sim * x
		}
	}

	return Normalize(acc)
}
