package cluster

import (
	"github.com/searchmill/serptopics/pkg/corpus"
)

// Engine defaults.
const (
	DefaultMaxK         = 10
	DefaultRestarts     = 4
	DefaultMaxIter      = 100
	DefaultSVDRank      = 100
	DefaultTopTerms     = 8
	DefaultMaxExemplars = 5
)

// Engine runs the full clustering pipeline over a corpus. The seed is
// derived from the job parameters by the caller, so the same input always
// clusters the same way.
type Engine struct {
	MaxK         int
	Restarts     int
	MaxIter      int
	SVDRank      int
	TopTerms     int
	MaxExemplars int
	Seed         int64

	// Tokenizer overrides language detection when set. Tests pin it.
	Tokenizer *corpus.Tokenizer
}

// NewEngine builds an engine with default knobs and the given seed.
func NewEngine(seed int64) *Engine {
	return &Engine{
		MaxK:         DefaultMaxK,
		Restarts:     DefaultRestarts,
		MaxIter:      DefaultMaxIter,
		SVDRank:      DefaultSVDRank,
		TopTerms:     DefaultTopTerms,
		MaxExemplars: DefaultMaxExemplars,
		Seed:         seed,
	}
}

// Outcome is the engine's result. Silhouette is nil when clustering was
// skipped or collapsed to a single cluster. Assignments are row-aligned
// with the corpus.
type Outcome struct {
	K           int
	Silhouette  *float64
	Assignments []int
	Summaries   []Summary
	Note        string
}

// Cluster vectorizes, reduces, partitions, and summarizes the corpus.
// Degenerate inputs never fail: an empty corpus short-circuits with a
// note, and a corpus too small for the requested k collapses to a single
// cluster.
func (e *Engine) Cluster(corp *corpus.Corpus, requestedK int) *Outcome {
	n := corp.Size()
	if n == 0 {
		return &Outcome{Note: "empty corpus: no keyword yielded records"}
	}

	texts := corp.Texts()
	tok := e.Tokenizer
	if tok == nil {
		tok = corpus.NewTokenizer(corpus.DetectLanguage(texts))
	}
	m := BuildTFIDF(texts, tok)
	latent := Reduce(m, e.SVDRank, e.Seed)

	if len(m.Vocab) == 0 {
		return e.singleCluster(corp, m, latent, "degenerate vocabulary: no discriminative terms")
	}
	if n < 3 {
		// k is confined to [2, n-1]; with n < 3 that interval collapses.
		return e.singleCluster(corp, m, latent, "corpus too small to partition")
	}

	var result KMeansResult
	var score float64
	if requestedK > 0 {
		k := requestedK
		if k < 2 {
			k = 2
		}
		if k > n-1 {
			k = n - 1
		}
		result = KMeans(latent, k, e.Restarts, e.MaxIter, e.Seed)
		score = Silhouette(latent, result.Assignments, k)
	} else {
		maxK := e.MaxK
		if maxK > n-1 {
			maxK = n - 1
		}
		_, score, result = ChooseK(latent, maxK, e.Restarts, e.MaxIter, e.Seed)
	}

	sil := score
	return &Outcome{
		K:           result.K,
		Silhouette:  &sil,
		Assignments: result.Assignments,
		Summaries:   Summarize(corp, m, latent, result, e.TopTerms, e.MaxExemplars),
	}
}

// singleCluster puts every record into cluster 0.
func (e *Engine) singleCluster(corp *corpus.Corpus, m *Matrix, latent [][]float64, note string) *Outcome {
	n := corp.Size()
	assignments := make([]int, n)

	dim := 0
	if n > 0 {
		dim = len(latent[0])
	}
	centroid := make([]float64, dim)
	for _, vec := range latent {
		for d, v := range vec {
			centroid[d] += v
		}
	}
	for d := range centroid {
		centroid[d] /= float64(n)
	}

	result := KMeansResult{K: 1, Assignments: assignments, Centroids: [][]float64{centroid}}
	return &Outcome{
		K:           1,
		Assignments: assignments,
		Summaries:   Summarize(corp, m, latent, result, e.TopTerms, e.MaxExemplars),
		Note:        note,
	}
}
