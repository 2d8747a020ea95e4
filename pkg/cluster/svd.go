package cluster

import (
	"math"
	"math/rand"
)

const (
	powerIterations = 200
	powerTolerance  = 1e-10
	minEigenvalue   = 1e-9
)

// Reduce projects the TF-IDF rows onto their leading singular directions,
// producing dense latent vectors row-aligned with the corpus. Raw TF-IDF
// space is high-dimensional and sparse, which makes Euclidean k-means
// behave poorly; the leading directions capture dominant co-occurrence
// structure. When fewer than 2 usable dimensions exist the reducer
// degrades to identity and returns the normalized TF-IDF rows densely.
//
// The decomposition works on the n x n Gram matrix G = A A^T: its
// eigenvectors are the left singular vectors of A, and scaling by the
// singular values gives the row projections U * Sigma directly.
func Reduce(m *Matrix, rank int, seed int64) [][]float64 {
	n := len(m.Rows)
	maxRank := n - 1
	if len(m.Vocab) < maxRank {
		maxRank = len(m.Vocab)
	}
	if rank > maxRank {
		rank = maxRank
	}
	if rank < 2 {
		return m.Dense()
	}

	// Gram matrix over the sparse rows.
	gram := make([][]float64, n)
	for i := range gram {
		gram[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := dotSparse(m.Rows[i], m.Rows[j])
			gram[i][j] = d
			gram[j][i] = d
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var eigvecs [][]float64
	var eigvals []float64

	for c := 0; c < rank; c++ {
		vec, val := dominantEigen(gram, rng)
		if val < minEigenvalue {
			break
		}
		eigvecs = append(eigvecs, vec)
		eigvals = append(eigvals, val)
		deflate(gram, vec, val)
	}

	if len(eigvecs) < 2 {
		return m.Dense()
	}

	latent := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(eigvecs))
		for c, vec := range eigvecs {
			row[c] = vec[i] * math.Sqrt(eigvals[c])
		}
		latent[i] = row
	}
	return latent
}

// dominantEigen finds the dominant eigenpair of a symmetric PSD matrix by
// power iteration with a seeded random start.
func dominantEigen(g [][]float64, rng *rand.Rand) ([]float64, float64) {
	n := len(g)
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64() - 0.5
	}
	normalizeVec(v)

	w := make([]float64, n)
	for iter := 0; iter < powerIterations; iter++ {
		matVec(g, v, w)
		norm := normalizeVec(w)
		if norm == 0 {
			return v, 0
		}
		// Converged when the direction stops changing.
		if math.Abs(math.Abs(dotVec(v, w))-1) < powerTolerance {
			copy(v, w)
			break
		}
		copy(v, w)
	}

	matVec(g, v, w)
	return v, dotVec(v, w)
}

// deflate removes a found component: G -= lambda * v v^T.
func deflate(g [][]float64, vec []float64, val float64) {
	n := len(g)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g[i][j] -= val * vec[i] * vec[j]
		}
	}
}

func matVec(g [][]float64, v, out []float64) {
	for i := range g {
		var sum float64
		row := g[i]
		for j := range row {
			sum += row[j] * v[j]
		}
		out[i] = sum
	}
}

func dotVec(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalizeVec(v []float64) float64 {
	norm := math.Sqrt(dotVec(v, v))
	if norm == 0 {
		return 0
	}
	for i := range v {
		v[i] /= norm
	}
	return norm
}
