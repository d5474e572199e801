// Package classify derives category and intent labels for newly parsed
// question/answer chunks: k-means clustering of their embeddings against
// the current taxonomy's exemplars, plus bilingual handoff detection.
package classify

import (
	"math"
	"math/rand"
)

const (
	defaultMaxIters = 50
	convergeEpsilon = 1e-6
)

// Cluster runs Lloyd's algorithm over vectors, returning the index of each
// vector's assigned cluster and the resulting centroids. No vector/cluster
// library in the ambient stack offers this directly, so it is implemented
// here against plain []float32 slices.
func Cluster(vectors [][]float32, k int, seed int64) (assignments []int, centroids [][]float32) {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(seed))
	centroids = seedCentroids(vectors, k, rng)
	assignments = make([]int, n)

	for iter := 0; iter < defaultMaxIters; iter++ {
		changed := assignNearest(vectors, centroids, assignments)
		newCentroids := recompute(vectors, assignments, k, len(vectors[0]))
		moved := maxCentroidShift(centroids, newCentroids)
		centroids = newCentroids
		if !changed && moved < convergeEpsilon {
			break
		}
	}
	return assignments, centroids
}

// seedCentroids picks k distinct starting points uniformly at random
// (Forgy initialization); sufficient for the corpus sizes a single draft
// commit produces.
func seedCentroids(vectors [][]float32, k int, rng *rand.Rand) [][]float32 {
	idx := rng.Perm(len(vectors))[:k]
	centroids := make([][]float32, k)
	for i, v := range idx {
		c := make([]float32, len(vectors[v]))
		copy(c, vectors[v])
		centroids[i] = c
	}
	return centroids
}

func assignNearest(vectors [][]float32, centroids [][]float32, assignments []int) bool {
	changed := false
	for i, v := range vectors {
		best, bestDist := 0, math.MaxFloat64
		for c, centroid := range centroids {
			d := squaredDistance(v, centroid)
			if d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

func recompute(vectors [][]float32, assignments []int, k, dims int) [][]float32 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, dims)
	}
	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d := 0; d < dims && d < len(v); d++ {
			sums[c][d] += float64(v[d])
		}
	}

	centroids := make([][]float32, k)
	for c := 0; c < k; c++ {
		centroids[c] = make([]float32, dims)
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < dims; d++ {
			centroids[c][d] = float32(sums[c][d] / float64(counts[c]))
		}
	}
	return centroids
}

func maxCentroidShift(a, b [][]float32) float64 {
	var max float64
	for i := range a {
		d := math.Sqrt(squaredDistance(a[i], b[i]))
		if d > max {
			max = d
		}
	}
	return max
}

func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		diff := float64(a[i] - b[i])
		sum += diff * diff
	}
	return sum
}
