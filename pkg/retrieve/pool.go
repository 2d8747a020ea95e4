package retrieve

import (
	"context"
	"sync"
)

// Pool runs keyword retrievals on a bounded worker pool. Live backends
// are resource-heavy, so fan-out is throttled rather than unbounded.
// Outcomes come back indexed by keyword-submission order regardless of
// completion order, which keeps the downstream corpus fold deterministic.
type Pool struct {
	workers      int
	orchestrator *Orchestrator
}

// NewPool builds a pool with the given concurrency bound.
func NewPool(workers int, orchestrator *Orchestrator) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, orchestrator: orchestrator}
}

// Run retrieves every keyword and returns one outcome per keyword, in
// submission order. Cancellation via ctx turns still-pending keywords
// into failed-by-timeout outcomes; the job still completes with whatever
// succeeded.
func (p *Pool) Run(ctx context.Context, keywords []string, limit int) []KeywordOutcome {
	outcomes := make([]KeywordOutcome, len(keywords))
	jobs := make(chan int, len(keywords))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = p.orchestrator.FetchKeyword(ctx, keywords[idx], limit)
			}
		}()
	}

	for i := range keywords {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
