// Package serp provides interchangeable search-result backends behind one
// fetch contract, plus block detection and SERP HTML extraction.
package serp

import (
	"context"

	"github.com/searchmill/serptopics/models"
)

// Signal classifies the outcome of one raw retrieval attempt.
type Signal string

const (
	// SignalOK means the response carried usable results.
	SignalOK Signal = "ok"
	// SignalChallenged means bot-challenge markers were present.
	SignalChallenged Signal = "challenged"
	// SignalEmpty means no challenge markers but no usable results either.
	SignalEmpty Signal = "empty"
)

// Response is a backend's raw outcome for one attempt. Page holds the raw
// body for diagnostic artifacts; it may be nil for programmatic backends.
type Response struct {
	Results []models.RawResult
	Signal  Signal
	Reason  string
	Page    []byte
}

// Backend is the uniform retrieval capability. Implementations must return
// results in rank order starting at position 1, and must report expected
// conditions (challenge page, empty page) via the Response signal rather
// than an error. Errors are reserved for network-level failures and are
// retriable.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, keyword string, limit int) (*Response, error)
}
