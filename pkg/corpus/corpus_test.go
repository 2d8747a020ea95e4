package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/retrieve"
)

func record(keyword, title string, pos int) models.Record {
	return models.Record{Keyword: keyword, Title: title, Position: pos}
}

func TestBuild_FoldsInSubmissionOrder(t *testing.T) {
	outcomes := []retrieve.KeywordOutcome{
		{Keyword: "alpha", Records: []models.Record{record("alpha", "a1", 1), record("alpha", "a2", 2)}},
		{Keyword: "beta", Records: []models.Record{record("beta", "b1", 1)}},
	}
	c := Build(outcomes)

	require.Equal(t, 3, c.Size())
	assert.Equal(t, "a1", c.Records[0].Title)
	assert.Equal(t, "a2", c.Records[1].Title)
	assert.Equal(t, "b1", c.Records[2].Title)
}

func TestBuild_SkipsFailedKeywords(t *testing.T) {
	outcomes := []retrieve.KeywordOutcome{
		{Keyword: "alpha", Records: []models.Record{record("alpha", "a1", 1)}},
		{Keyword: "blocked", Err: retrieve.ErrExhausted},
		{Keyword: "gamma", Records: []models.Record{record("gamma", "g1", 1)}},
	}
	c := Build(outcomes)

	require.Equal(t, 2, c.Size())
	assert.Equal(t, "alpha", c.Records[0].Keyword)
	assert.Equal(t, "gamma", c.Records[1].Keyword)
}

func TestBuild_AllFailedYieldsEmptyCorpus(t *testing.T) {
	outcomes := []retrieve.KeywordOutcome{
		{Keyword: "a", Err: retrieve.ErrExhausted},
		{Keyword: "b", Err: retrieve.ErrExhausted},
	}
	c := Build(outcomes)
	assert.Equal(t, 0, c.Size())
	assert.Empty(t, c.Texts())
}

func TestTexts_AlignedWithRecords(t *testing.T) {
	c := &Corpus{Records: []models.Record{
		{Title: "Standing Desk", Excerpt: "height adjustable"},
		{Title: "Chair"},
	}}
	texts := c.Texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "Standing Desk height adjustable", texts[0])
	assert.Equal(t, "Chair", texts[1])
}
