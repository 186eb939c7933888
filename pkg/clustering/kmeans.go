// Package clustering partitions embedded items into topical groups.
package clustering

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/EternisAI/persona/pkg/vector"
)

// Config holds configuration for K-means clustering.
type Config struct {
	MaxK          int        // Upper bound on the number of clusters
	MaxIterations int        // Maximum number of assignment/update rounds
	Rand          *rand.Rand // Source for centroid seeding; nil means time seeded
}

// DefaultConfig bounds the cluster count at 8, which also bounds how many
// summarization calls a run makes.
func DefaultConfig() Config {
	return Config{
		MaxK:          8,
		MaxIterations: 50,
	}
}

// NewSeededRand returns a deterministic random source for reproducible runs.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Cluster is a set of indices into the clustered vectors and their mean.
type Cluster struct {
	Members  []int     `json:"members"`
	Centroid []float64 `json:"centroid"`
}

// ChooseK returns min(maxK, max(1, floor(sqrt(n)))).
func ChooseK(n, maxK int) int {
	if maxK < 1 {
		maxK = 1
	}
	k := int(math.Floor(math.Sqrt(float64(n))))
	return min(maxK, max(1, k))
}

// KMeans partitions vectors into at most k non-empty clusters using Euclidean
// distance. Initial centroids are k distinct vectors drawn from cfg.Rand, so
// without a seeded source membership differs between runs.
func KMeans(vectors [][]float64, k int, cfg Config) []Cluster {
	n := len(vectors)
	if n == 0 || k < 1 {
		return nil
	}
	if n <= k {
		clusters := make([]Cluster, n)
		for i, v := range vectors {
			clusters[i] = Cluster{Members: []int{i}, Centroid: slices.Clone(v)}
		}
		return clusters
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultConfig().MaxIterations
	}

	centroids := make([][]float64, k)
	for c, idx := range rng.Perm(n)[:k] {
		centroids[c] = slices.Clone(vectors[idx])
	}

	var members [][]int
	for iteration := 0; iteration < maxIterations; iteration++ {
		members = make([][]int, k)
		for i, v := range vectors {
			nearest := findNearestCentroid(v, centroids)
			members[nearest] = append(members[nearest], i)
		}

		moved := false
		for c := range centroids {
			// an empty cluster keeps its previous centroid
			if len(members[c]) == 0 {
				continue
			}
			mean := vector.Mean(vectors, members[c])
			if !slices.Equal(mean, centroids[c]) {
				moved = true
			}
			centroids[c] = mean
		}
		if !moved {
			break
		}
	}

	clusters := make([]Cluster, 0, k)
	for c := range centroids {
		if len(members[c]) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Members: members[c], Centroid: centroids[c]})
	}
	return clusters
}

// findNearestCentroid returns the closest centroid; ties go to the lower index.
func findNearestCentroid(v []float64, centroids [][]float64) int {
	nearest := 0
	best := math.Inf(1)
	for c, centroid := range centroids {
		if d := vector.Euclidean(v, centroid); d < best {
			best = d
			nearest = c
		}
	}
	return nearest
}
