package session

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/searchmill/serptopics/models"
)

func sampleResult() *models.JobResult {
	sil := 0.6
	return &models.JobResult{
		Meta: models.Meta{
			K:          2,
			Silhouette: &sil,
			Counts: models.KeywordCounts{
				Keywords: 2, Succeeded: 2, Records: 2,
				PerKeyword: map[string]int{"desk": 1, "chair": 1},
			},
		},
		TopTerms:  map[int][]string{0: {"lamp"}, 1: {"chair"}},
		Exemplars: map[int][]models.Exemplar{},
		Results: []models.ClusteredRecord{
			{Record: models.Record{Keyword: "desk", Title: "Desk A", URL: "https://a.example.com", Domain: "a.example.com", Position: 1, Source: "live"}, Cluster: 0},
			{Record: models.Record{Keyword: "chair", Title: "Chair B", URL: "https://b.example.com", Domain: "b.example.com", Position: 1, Source: "serpapi"}, Cluster: 1},
		},
	}
}

func TestDir_Layout(t *testing.T) {
	created := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	dir := Dir("out", 7, created)
	assert.Equal(t, filepath.Join("out", "sessions", "2026-08-24-7"), dir)
}

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	dir, err := EnsureDir(base, 1, time.Now())
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteResultJSON_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteResultJSON(dir, sampleResult()))

	data, err := os.ReadFile(filepath.Join(dir, "result.json"))
	require.NoError(t, err)

	var got models.JobResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.Meta.K)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "Desk A", got.Results[0].Title)
	assert.Equal(t, 1, got.Results[1].Cluster)
}

func TestWriteClusteredCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteClusteredCSV(dir, sampleResult()))

	f, err := os.Open(filepath.Join(dir, "clustered.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 records
	assert.Equal(t, "keyword", rows[0][0])
	assert.Equal(t, "desk", rows[1][0])
	assert.Equal(t, "0", rows[1][6]) // cluster column
	assert.Equal(t, "serpapi", rows[2][7])
}

func TestUpdateIndex_AppendsAndReplaces(t *testing.T) {
	base := t.TempDir()
	created := time.Now().UTC()

	require.NoError(t, UpdateIndex(base, Info{JobID: 1, Created: created, KeywordCount: 2, K: 2}))
	require.NoError(t, UpdateIndex(base, Info{JobID: 2, Created: created, KeywordCount: 5, K: 3}))
	// Re-running job 1 replaces its entry instead of duplicating it.
	require.NoError(t, UpdateIndex(base, Info{JobID: 1, Created: created, KeywordCount: 2, K: 4}))

	data, err := os.ReadFile(filepath.Join(base, "index.yaml"))
	require.NoError(t, err)

	var index Index
	require.NoError(t, yaml.Unmarshal(data, &index))
	require.Len(t, index.Sessions, 2)
	assert.Equal(t, int64(1), index.Sessions[0].JobID)
	assert.Equal(t, 4, index.Sessions[0].K)
	assert.Equal(t, int64(2), index.Sessions[1].JobID)
}

func TestKeywordsPreview(t *testing.T) {
	kws := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b", "c"}, KeywordsPreview(kws, 3))
	assert.Equal(t, kws, KeywordsPreview(kws, 10))
}
