// Package vector has the embedding-space math shared by deduplication and clustering.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// NearDuplicateThreshold is the cosine similarity above which two items are
// considered the same content.
const NearDuplicateThreshold = 0.92

const cosineEpsilon = 1e-10

// Cosine returns the cosine similarity of a and b. Vectors of different
// length, or empty ones, have similarity 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	return floats.Dot(a, b) / (floats.Norm(a, 2)*floats.Norm(b, 2) + cosineEpsilon)
}

// Euclidean returns the L2 distance between a and b, or +Inf when the
// dimensions differ.
func Euclidean(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// FilterNearDuplicates walks vectors in order and keeps an index unless it is
// more similar than threshold to a vector kept before it. The kept indices
// are returned in input order.
func FilterNearDuplicates(vectors [][]float64, threshold float64) []int {
	keep := make([]int, 0, len(vectors))
	for i, v := range vectors {
		duplicate := false
		for _, j := range keep {
			if Cosine(v, vectors[j]) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			keep = append(keep, i)
		}
	}
	return keep
}

// Mean returns the element-wise mean of the selected rows. It returns nil when
// members is empty.
func Mean(vectors [][]float64, members []int) []float64 {
	if len(members) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[members[0]]))
	for _, idx := range members {
		floats.Add(mean, vectors[idx])
	}
	floats.Scale(1/float64(len(members)), mean)
	return mean
}

// Shrink keeps the first maxDims components rounded to precision decimals,
// which is enough to eyeball a centroid in a debug trace.
func Shrink(v []float64, maxDims, precision int) []float64 {
	n := min(len(v), maxDims)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = scalar.Round(v[i], precision)
	}
	return out
}
