package vector

import (
	"math"
	"testing"
)

// TestCosineSimilarity tests cosine similarity across normal and degenerate inputs.
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "opposite vectors",
			a:        []float64{1, 0},
			b:        []float64{-1, 0},
			expected: -1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1, 0},
			b:        []float64{0, 1},
			expected: 0.0,
		},
		{
			name:     "scaled vectors keep direction",
			a:        []float64{1, 2, 3},
			b:        []float64{2, 4, 6},
			expected: 1.0,
		},
		{
			name:     "mismatched length returns zero",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2},
			expected: 0.0,
		},
		{
			name:     "empty vectors return zero",
			a:        []float64{},
			b:        []float64{},
			expected: 0.0,
		},
		{
			name:     "zero-norm vector returns zero",
			a:        []float64{0, 0, 0},
			b:        []float64{1, 2, 3},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

// TestCosineSimilarityRange verifies the result stays in [-1, 1] for
// arbitrary finite non-zero vectors.
func TestCosineSimilarityRange(t *testing.T) {
	vecs := [][]float64{
		{0.3, -0.7, 2.1, 0.05},
		{-1.5, 0.2, 0.9, 3.3},
		{100, -200, 50, 7},
		{0.001, 0.002, -0.003, 0.004},
	}

	for i, a := range vecs {
		for j, b := range vecs {
			got := CosineSimilarity(a, b)
			if got < -1.0001 || got > 1.0001 {
				t.Errorf("similarity(%d,%d) = %f out of [-1,1]", i, j, got)
			}
		}
	}
}

// TestWeightedAverage tests weighted vector averaging.
func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name     string
		vecs     [][]float64
		weights  []float64
		expected []float64
	}{
		{
			name:     "equal weights average",
			vecs:     [][]float64{{1, 0}, {0, 1}},
			weights:  []float64{1, 1},
			expected: []float64{0.5, 0.5},
		},
		{
			name:     "unequal weights favor heavier vector",
			vecs:     [][]float64{{1, 0}, {0, 1}},
			weights:  []float64{3, 1},
			expected: []float64{0.75, 0.25},
		},
		{
			name:     "mismatched dimensionality skipped",
			vecs:     [][]float64{{1, 0}, {1, 1, 1}},
			weights:  []float64{1, 1},
			expected: []float64{1, 0},
		},
		{
			name:     "zero weights yield nil",
			vecs:     [][]float64{{1, 2}, {3, 4}},
			weights:  []float64{0, 0},
			expected: nil,
		},
		{
			name:     "empty input yields nil",
			vecs:     nil,
			weights:  nil,
			expected: nil,
		},
		{
			name:     "length mismatch between vecs and weights yields nil",
			vecs:     [][]float64{{1, 2}},
			weights:  []float64{1, 1},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WeightedAverage(tt.vecs, tt.weights)
			if tt.expected == nil {
				if result != nil {
					t.Fatalf("expected nil, got %v", result)
				}
				return
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, result)
			}
			for i := range result {
				if math.Abs(result[i]-tt.expected[i]) > 0.0001 {
					t.Errorf("component %d: expected %f, got %f", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

// TestWeightedAverageAbsentNotZero verifies that "no contributing vectors"
// produces an absent (nil) aggregate rather than a zero-filled one.
func TestWeightedAverageAbsentNotZero(t *testing.T) {
	result := WeightedAverage([][]float64{{}, {}}, []float64{1, 1})
	if result != nil {
		t.Errorf("expected nil aggregate for empty vectors, got %v", result)
	}
}
