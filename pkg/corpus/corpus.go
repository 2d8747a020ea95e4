// Package corpus folds per-keyword retrieval outcomes into one ordered
// corpus and tokenizes record text for vectorization.
package corpus

import (
	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/retrieve"
)

// Corpus is the job's ordered record sequence. Index order is assigned at
// build time, is stable for the life of the job, and is the join key for
// every downstream matrix and vector.
type Corpus struct {
	Records []models.Record
}

// Build folds successful keyword outcomes into a corpus: keywords in
// submission order, records in rank order within each keyword. Failed
// keywords contribute nothing; an all-failed job yields an empty corpus.
func Build(outcomes []retrieve.KeywordOutcome) *Corpus {
	c := &Corpus{}
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			continue
		}
		c.Records = append(c.Records, outcome.Records...)
	}
	return c
}

// Size returns the number of records in the corpus.
func (c *Corpus) Size() int { return len(c.Records) }

// Texts returns each record's clustering text, in corpus index order.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.Records))
	for i, r := range c.Records {
		texts[i] = r.Text()
	}
	return texts
}
