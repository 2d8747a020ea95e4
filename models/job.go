package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputInvalid marks a malformed job request, rejected before any
// retrieval work starts. It is the only hard failure a job can surface.
var ErrInputInvalid = errors.New("invalid job request")

// JobRequest is the inbound job contract. Keywords are an ordered set:
// order is preserved, duplicates and empties are removed by Normalize.
type JobRequest struct {
	Keywords   []string `json:"keywords"`
	PerKeyword int      `json:"per_keyword"`
	K          int      `json:"k"` // 0 means auto-select
}

// Normalize trims and deduplicates keywords in submission order, then
// validates the request. Returns ErrInputInvalid-wrapped errors.
func (r *JobRequest) Normalize() error {
	seen := make(map[string]struct{}, len(r.Keywords))
	cleaned := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		kw = NormalizeText(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, kw)
	}
	r.Keywords = cleaned

	if len(r.Keywords) == 0 {
		return fmt.Errorf("%w: no usable keywords", ErrInputInvalid)
	}
	if r.PerKeyword < 1 {
		return fmt.Errorf("%w: per_keyword must be >= 1, got %d", ErrInputInvalid, r.PerKeyword)
	}
	if r.K != 0 && r.K < 2 {
		return fmt.Errorf("%w: k must be >= 2 when set, got %d", ErrInputInvalid, r.K)
	}
	return nil
}

// KeywordCounts summarizes per-keyword retrieval outcomes in job meta.
type KeywordCounts struct {
	Keywords   int            `json:"keywords"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	Records    int            `json:"records"`
	PerKeyword map[string]int `json:"per_keyword"`
}

// Meta describes how a job's clustering went.
type Meta struct {
	K          int           `json:"k"`
	Silhouette *float64      `json:"silhouette"`
	Counts     KeywordCounts `json:"counts"`
	Note       string        `json:"note,omitempty"`
}

// Exemplar is a cluster's representative record, nearest-to-centroid
// first, annotated with its latent-space distance.
type Exemplar struct {
	URL      string  `json:"url"`
	Domain   string  `json:"domain"`
	Text     string  `json:"text"`
	Position int     `json:"position"`
	Distance float64 `json:"distance"`
}

// ClusteredRecord is a Record annotated with its assigned cluster id.
type ClusteredRecord struct {
	Record
	Cluster int `json:"cluster"`
}

// JobResult is the outbound job contract. Built once per job, immutable,
// not retained after handoff. Results are in corpus index order.
type JobResult struct {
	Meta      Meta               `json:"meta"`
	TopTerms  map[int][]string   `json:"top_terms"`
	Exemplars map[int][]Exemplar `json:"exemplars"`
	Results   []ClusteredRecord  `json:"results"`
}
