// Package vector provides numeric helpers for embedding vectors used in
// similarity-based ranking.
package vector

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths, empty vectors, and zero-norm vectors return 0 so
// callers can treat incomplete embedding data as "no signal" rather than
// an error.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// WeightedAverage computes the weighted mean of a set of vectors.
// Vectors whose dimensionality differs from the first usable vector are
// skipped, as are vectors paired with a non-positive weight.
//
// Returns nil when no vector contributes any weight. A nil result means
// "no aggregate available" and is distinct from a zero-filled vector;
// similarity against a nil aggregate must neutral-default downstream.
func WeightedAverage(vecs [][]float64, weights []float64) []float64 {
	if len(vecs) == 0 || len(vecs) != len(weights) {
		return nil
	}

	var sum []float64
	var totalWeight float64

	for i, v := range vecs {
		w := weights[i]
		if w <= 0 || len(v) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(v))
		}
		if len(v) != len(sum) {
			// Mismatched dimensionality contributes nothing.
			continue
		}
		for j := range v {
			sum[j] += v[j] * w
		}
		totalWeight += w
	}

	if totalWeight == 0 {
		return nil
	}

	for j := range sum {
		sum[j] /= totalWeight
	}
	return sum
}
