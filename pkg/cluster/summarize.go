package cluster

import (
	"sort"

	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/corpus"
)

// Summary describes one cluster: representative terms ranked by
// aggregated TF-IDF weight and exemplar records nearest the centroid.
// Clusters hold corpus indices, never record copies; exemplars resolve
// indices back into the corpus here, at summarization time.
type Summary struct {
	ID        int
	Size      int
	TopTerms  []string
	Exemplars []models.Exemplar
}

// Summarize builds per-cluster summaries from the partition.
func Summarize(c *corpus.Corpus, m *Matrix, latent [][]float64, km KMeansResult, topTerms, maxExemplars int) []Summary {
	members := make([][]int, km.K)
	for idx, cl := range km.Assignments {
		members[cl] = append(members[cl], idx)
	}

	summaries := make([]Summary, km.K)
	for cl := 0; cl < km.K; cl++ {
		summaries[cl] = Summary{
			ID:        cl,
			Size:      len(members[cl]),
			TopTerms:  clusterTopTerms(m, members[cl], topTerms),
			Exemplars: clusterExemplars(c, latent, km.Centroids[cl], members[cl], maxExemplars),
		}
	}
	return summaries
}

// clusterTopTerms sums member TF-IDF weights per term and ranks them
// descending, alphabetical on equal weight for stable output.
func clusterTopTerms(m *Matrix, members []int, limit int) []string {
	weights := make(map[int]float64)
	for _, idx := range members {
		for col, w := range m.Rows[idx] {
			weights[col] += w
		}
	}

	type termWeight struct {
		term   string
		weight float64
	}
	ranked := make([]termWeight, 0, len(weights))
	for col, w := range weights {
		if w > 0 {
			ranked = append(ranked, termWeight{term: m.Vocab[col], weight: w})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].term < ranked[j].term
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	terms := make([]string, len(ranked))
	for i, tw := range ranked {
		terms[i] = tw.term
	}
	return terms
}

// clusterExemplars picks the members nearest the centroid, ascending by
// distance, corpus index on ties.
func clusterExemplars(c *corpus.Corpus, latent [][]float64, centroid []float64, members []int, limit int) []models.Exemplar {
	type memberDist struct {
		idx  int
		dist float64
	}
	dists := make([]memberDist, len(members))
	for i, idx := range members {
		dists[i] = memberDist{idx: idx, dist: Distance(latent[idx], centroid)}
	}
	sort.Slice(dists, func(i, j int) bool {
		if dists[i].dist != dists[j].dist {
			return dists[i].dist < dists[j].dist
		}
		return dists[i].idx < dists[j].idx
	})

	if len(dists) > limit {
		dists = dists[:limit]
	}
	exemplars := make([]models.Exemplar, len(dists))
	for i, md := range dists {
		record := c.Records[md.idx]
		exemplars[i] = models.Exemplar{
			URL:      record.URL,
			Domain:   record.Domain,
			Text:     record.Text(),
			Position: record.Position,
			Distance: md.dist,
		}
	}
	return exemplars
}
