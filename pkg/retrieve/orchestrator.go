// Package retrieve drives per-keyword retrieval through an ordered backend
// chain with retries, block-triggered fallback, and diagnostic snapshots.
package retrieve

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/artifacts"
	"github.com/searchmill/serptopics/pkg/retry"
	"github.com/searchmill/serptopics/pkg/serp"
)

// ErrExhausted means every backend in the chain failed for one keyword.
// It is recorded per keyword, never propagated as a job failure.
var ErrExhausted = errors.New("all backends exhausted")

// Attempt is the diagnostic trace of one backend try for one keyword.
type Attempt struct {
	Backend      string
	Outcome      string // ok, challenged, empty, error, timeout
	Reason       string
	Elapsed      time.Duration
	ArtifactPath string
}

// KeywordOutcome is the terminal result of one keyword's retrieval:
// either normalized records from the first backend that answered, or an
// error after the whole chain was exhausted or the job timed out.
type KeywordOutcome struct {
	Keyword  string
	Records  []models.Record
	Attempts []Attempt
	Err      error
}

// Succeeded reports whether the keyword reached a terminal success.
func (o KeywordOutcome) Succeeded() bool { return o.Err == nil }

// Orchestrator owns the backend chain, the retry policy, and the
// diagnostic store. A single keyword's attempts are strictly sequential;
// distinct keywords may run through the same Orchestrator concurrently.
type Orchestrator struct {
	chain  []serp.Backend
	policy *retry.Policy
	store  *artifacts.Store
	logger *slog.Logger

	// wait is the backoff sleep, injectable for tests.
	wait func(ctx context.Context, d time.Duration)
}

// NewOrchestrator builds an orchestrator over an ordered backend chain.
// Ordering is configuration: the caller decides live-first or API-first.
func NewOrchestrator(chain []serp.Backend, policy *retry.Policy, store *artifacts.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		chain:  chain,
		policy: policy,
		store:  store,
		logger: logger,
		wait:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// FetchKeyword walks the backend chain for one keyword. On a usable
// response it normalizes and returns immediately; challenge and empty
// signals are retried within the current backend up to the policy bound,
// then fall through to the next backend. A challenged attempt saves one
// diagnostic snapshot per backend.
func (o *Orchestrator) FetchKeyword(ctx context.Context, keyword string, limit int) KeywordOutcome {
	out := KeywordOutcome{Keyword: keyword}

	for _, backend := range o.chain {
		snapshotSaved := false

		for attempt := 1; attempt <= o.policy.MaxAttempts; attempt++ {
			if ctx.Err() != nil {
				out.Attempts = append(out.Attempts, Attempt{Backend: backend.Name(), Outcome: "timeout"})
				out.Err = ctx.Err()
				return out
			}

			start := time.Now()
			resp, err := backend.Fetch(ctx, keyword, limit)
			att := Attempt{Backend: backend.Name(), Elapsed: time.Since(start)}

			if err != nil {
				if ctx.Err() != nil {
					att.Outcome = "timeout"
					out.Attempts = append(out.Attempts, att)
					out.Err = ctx.Err()
					return out
				}
				att.Outcome = "error"
				att.Reason = err.Error()
				out.Attempts = append(out.Attempts, att)
				o.logger.Warn("Retrieval attempt failed", "keyword", keyword, "backend", backend.Name(), "attempt", attempt, "error", err)
			} else {
				switch resp.Signal {
				case serp.SignalOK:
					att.Outcome = "ok"
					out.Attempts = append(out.Attempts, att)
					out.Records = normalize(keyword, backend.Name(), resp.Results)
					o.logger.Info("Keyword retrieved", "keyword", keyword, "backend", backend.Name(), "records", len(out.Records))
					return out
				case serp.SignalChallenged, serp.SignalEmpty:
					att.Outcome = string(resp.Signal)
					att.Reason = resp.Reason
					if !snapshotSaved && o.store != nil && len(resp.Page) > 0 {
						path, saveErr := o.store.Save(keyword, resp.Page)
						if saveErr != nil {
							o.logger.Warn("Failed to save diagnostic snapshot", "keyword", keyword, "error", saveErr)
						} else {
							att.ArtifactPath = path
							snapshotSaved = true
						}
					}
					out.Attempts = append(out.Attempts, att)
					o.logger.Warn("Retrieval attempt blocked or empty", "keyword", keyword, "backend", backend.Name(), "attempt", attempt, "signal", resp.Signal, "reason", resp.Reason)
				}
			}

			if attempt < o.policy.MaxAttempts {
				o.wait(ctx, o.policy.Delay(attempt))
			}
		}
	}

	out.Err = ErrExhausted
	o.logger.Warn("Keyword exhausted all backends", "keyword", keyword, "attempts", len(out.Attempts))
	return out
}

func normalize(keyword, source string, raws []models.RawResult) []models.Record {
	records := make([]models.Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, models.NewRecord(keyword, source, raw))
	}
	return records
}
