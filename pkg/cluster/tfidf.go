// Package cluster implements the clustering engine: TF-IDF vectorization,
// rank reduction, k-means partitioning with automatic k selection, and
// per-cluster summaries.
package cluster

import (
	"math"
	"sort"

	"github.com/searchmill/serptopics/pkg/corpus"
)

// Matrix is a sparse TF-IDF term-document matrix. Row i corresponds to
// corpus index i; columns are the job-local vocabulary. All weights are
// non-negative and rows are L2-normalized.
type Matrix struct {
	Vocab []string
	Index map[string]int
	Rows  []map[int]float64
}

// BuildTFIDF vectorizes the texts. Weight for term t in document d is
// tf(t,d) * log(N/df(t)). Terms present in every document or in none
// carry zero discriminative power and are excluded from the vocabulary.
func BuildTFIDF(texts []string, tok *corpus.Tokenizer) *Matrix {
	n := len(texts)
	docCounts := make([]map[string]int, n)
	df := make(map[string]int)

	for i, text := range texts {
		counts := make(map[string]int)
		for _, term := range tok.Tokenize(text) {
			counts[term]++
		}
		docCounts[i] = counts
		for term := range counts {
			df[term]++
		}
	}

	// Vocabulary: terms with 0 < df < N, sorted for stable column order.
	var vocab []string
	for term, d := range df {
		if d > 0 && d < n {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	m := &Matrix{Vocab: vocab, Index: index, Rows: make([]map[int]float64, n)}
	for i, counts := range docCounts {
		row := make(map[int]float64)
		for term, tf := range counts {
			col, ok := index[term]
			if !ok {
				continue
			}
			row[col] = float64(tf) * math.Log(float64(n)/float64(df[term]))
		}
		normalizeRow(row)
		m.Rows[i] = row
	}
	return m
}

func normalizeRow(row map[int]float64) {
	var sum float64
	for _, w := range row {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for col, w := range row {
		row[col] = w / norm
	}
}

// dotSparse computes the dot product of two sparse rows.
func dotSparse(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		if bw, ok := b[col]; ok {
			sum += w * bw
		}
	}
	return sum
}

// Dense expands the sparse rows into dense vectors over the vocabulary.
func (m *Matrix) Dense() [][]float64 {
	dense := make([][]float64, len(m.Rows))
	for i, row := range m.Rows {
		vec := make([]float64, len(m.Vocab))
		for col, w := range row {
			vec[col] = w
		}
		dense[i] = vec
	}
	return dense
}
