package cluster

import (
	"math"
	"math/rand"
)

// KMeansResult is one finished partition of the latent vectors. Every
// point belongs to exactly one cluster.
type KMeansResult struct {
	K           int
	Assignments []int
	Centroids   [][]float64
	Inertia     float64
}

// KMeans runs Lloyd iteration with a fixed number of seeded restarts and
// keeps the best-inertia run. Restart r uses seed+r, so identical input
// always yields identical output.
func KMeans(points [][]float64, k, restarts, maxIter int, seed int64) KMeansResult {
	if restarts < 1 {
		restarts = 1
	}
	best := KMeansResult{Inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		result := lloyd(points, k, maxIter, rand.New(rand.NewSource(seed+int64(r))))
		if result.Inertia < best.Inertia {
			best = result
		}
	}
	return best
}

func lloyd(points [][]float64, k, maxIter int, rng *rand.Rand) KMeansResult {
	n := len(points)
	dim := len(points[0])

	// Initialize centroids from k distinct points.
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), points[perm[c]]...)
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != assignments[i] {
				assignments[i] = nearest
				changed = true
			}
		}

		sizes := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			sizes[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}

		for c := 0; c < k; c++ {
			if sizes[c] == 0 {
				// Reseed the empty centroid from the point currently
				// farthest from its own centroid.
				far := farthestPoint(points, assignments, centroids)
				copy(centroids[c], points[far])
				assignments[far] = c
				changed = true
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = sums[c][d] / float64(sizes[c])
			}
		}

		if !changed {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assignments[i]])
	}
	return KMeansResult{K: k, Assignments: assignments, Centroids: centroids, Inertia: inertia}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestPoint(points [][]float64, assignments []int, centroids [][]float64) int {
	far := 0
	farDist := -1.0
	for i, p := range points {
		if d := squaredDistance(p, centroids[assignments[i]]); d > farDist {
			farDist = d
			far = i
		}
	}
	return far
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// Distance is the Euclidean distance between two latent vectors.
func Distance(a, b []float64) float64 {
	return math.Sqrt(squaredDistance(a, b))
}
