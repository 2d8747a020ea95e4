package cluster

import (
	"testing"

	"github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/corpus"
)

func testCorpus(titles ...string) *corpus.Corpus {
	c := &corpus.Corpus{}
	for i, title := range titles {
		c.Records = append(c.Records, models.Record{
			Keyword:  "kw",
			Title:    title,
			URL:      "https://example.com/" + title,
			Position: i + 1,
		})
	}
	return c
}

func newTestEngine(seed int64) *Engine {
	e := NewEngine(seed)
	e.Tokenizer = corpus.NewTokenizer(lingua.English)
	return e
}

// topicCorpus has three clear topic groups of three records each.
func topicCorpus() *corpus.Corpus {
	return testCorpus(
		"lamp bulb light bright glow",
		"lamp bulb light shade glow",
		"lamp bulb bright shade fixture",
		"chair seat cushion wheels armrest",
		"chair seat cushion recline armrest",
		"chair seat wheels recline lumbar",
		"monitor screen pixel display resolution",
		"monitor screen pixel stand resolution",
		"monitor screen display stand refresh",
	)
}

func TestEngineCluster_EmptyCorpus(t *testing.T) {
	out := newTestEngine(1).Cluster(&corpus.Corpus{}, 0)
	assert.Equal(t, 0, out.K)
	assert.Nil(t, out.Silhouette)
	assert.Empty(t, out.Assignments)
	assert.NotEmpty(t, out.Note)
}

func TestEngineCluster_PartitionInvariant(t *testing.T) {
	corp := topicCorpus()
	out := newTestEngine(1).Cluster(corp, 3)

	require.Len(t, out.Assignments, corp.Size())
	for _, c := range out.Assignments {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, out.K)
	}
	require.NotNil(t, out.Silhouette)
	assert.GreaterOrEqual(t, *out.Silhouette, -1.0)
	assert.LessOrEqual(t, *out.Silhouette, 1.0)
}

func TestEngineCluster_RecoversTopicGroups(t *testing.T) {
	corp := topicCorpus()
	out := newTestEngine(1).Cluster(corp, 3)

	require.Equal(t, 3, out.K)
	for group := 0; group < 3; group++ {
		base := out.Assignments[group*3]
		assert.Equal(t, base, out.Assignments[group*3+1], "group %d", group)
		assert.Equal(t, base, out.Assignments[group*3+2], "group %d", group)
	}
}

func TestEngineCluster_AutoKSelectsByThreeGroups(t *testing.T) {
	corp := topicCorpus()
	out := newTestEngine(1).Cluster(corp, 0)
	assert.Equal(t, 3, out.K)
	require.NotNil(t, out.Silhouette)
	assert.Greater(t, *out.Silhouette, 0.0)
}

func TestEngineCluster_Deterministic(t *testing.T) {
	corp := topicCorpus()
	a := newTestEngine(42).Cluster(corp, 0)
	b := newTestEngine(42).Cluster(corp, 0)

	assert.Equal(t, a.K, b.K)
	assert.Equal(t, a.Assignments, b.Assignments)
	require.NotNil(t, a.Silhouette)
	require.NotNil(t, b.Silhouette)
	assert.Equal(t, *a.Silhouette, *b.Silhouette)
	assert.Equal(t, a.Summaries, b.Summaries)
}

func TestEngineCluster_RequestedKClamped(t *testing.T) {
	corp := testCorpus(
		"lamp bulb glow", "chair seat cushion", "monitor screen pixel", "desk wood drawer",
	)
	out := newTestEngine(1).Cluster(corp, 10)
	assert.Equal(t, 3, out.K, "k is clamped to n-1")
}

func TestEngineCluster_TinyCorpusCollapsesToSingleCluster(t *testing.T) {
	corp := testCorpus("lamp bulb glow", "chair seat cushion")
	out := newTestEngine(1).Cluster(corp, 2)

	assert.Equal(t, 1, out.K)
	assert.Nil(t, out.Silhouette)
	assert.Equal(t, []int{0, 0}, out.Assignments)
	assert.NotEmpty(t, out.Note)
	require.Len(t, out.Summaries, 1)
	assert.Equal(t, 2, out.Summaries[0].Size)
}

func TestEngineCluster_DegenerateVocabulary(t *testing.T) {
	// Identical texts: every term has df == N, so the vocabulary is empty.
	corp := testCorpus("lamp bulb glow", "lamp bulb glow", "lamp bulb glow")
	out := newTestEngine(1).Cluster(corp, 0)

	assert.Equal(t, 1, out.K)
	assert.Nil(t, out.Silhouette)
	assert.NotEmpty(t, out.Note)
}

func TestEngineCluster_SummariesCarryTermsAndExemplars(t *testing.T) {
	corp := topicCorpus()
	out := newTestEngine(1).Cluster(corp, 3)

	require.Len(t, out.Summaries, 3)
	total := 0
	for _, s := range out.Summaries {
		total += s.Size
		assert.NotEmpty(t, s.TopTerms)
		require.NotEmpty(t, s.Exemplars)
		assert.LessOrEqual(t, len(s.Exemplars), DefaultMaxExemplars)
		// Exemplars sorted nearest-first.
		for i := 1; i < len(s.Exemplars); i++ {
			assert.LessOrEqual(t, s.Exemplars[i-1].Distance, s.Exemplars[i].Distance)
		}
	}
	assert.Equal(t, corp.Size(), total)
}
