package cluster

// Silhouette returns the mean silhouette score of a partition, in [-1, 1].
// Points in singleton clusters score 0 by convention.
func Silhouette(points [][]float64, assignments []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}

	sizes := make([]int, k)
	for _, c := range assignments {
		sizes[c]++
	}

	var total float64
	for i := range points {
		own := assignments[i]
		if sizes[own] <= 1 {
			continue // s(i) = 0
		}

		// Mean distance to every cluster.
		sums := make([]float64, k)
		for j := range points {
			if i == j {
				continue
			}
			sums[assignments[j]] += Distance(points[i], points[j])
		}

		a := sums[own] / float64(sizes[own]-1)
		b := -1.0
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			mean := sums[c] / float64(sizes[c])
			if b < 0 || mean < b {
				b = mean
			}
		}
		if b < 0 {
			continue
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n)
}

// ChooseK sweeps candidate cluster counts in [2, maxK], scores each
// best-inertia partition with the mean silhouette, and returns the
// winner. Ties break toward the smaller k.
func ChooseK(points [][]float64, maxK, restarts, maxIter int, seed int64) (int, float64, KMeansResult) {
	bestK := 2
	bestScore := -2.0
	var bestResult KMeansResult

	for k := 2; k <= maxK; k++ {
		result := KMeans(points, k, restarts, maxIter, seed)
		score := Silhouette(points, result.Assignments, k)
		if score > bestScore {
			bestK = k
			bestScore = score
			bestResult = result
		}
	}
	return bestK, bestScore, bestResult
}
