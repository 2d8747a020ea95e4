package retrieve

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/serp"
)

// keywordBackend answers every keyword with one record echoing it, so
// outcome ordering is checkable.
type keywordBackend struct {
	mu    sync.Mutex
	calls int
}

func (b *keywordBackend) Name() string { return "echo" }

func (b *keywordBackend) Fetch(_ context.Context, keyword string, _ int) (*serp.Response, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	return &serp.Response{
		Results: []models.RawResult{{Title: keyword, URL: "https://example.com/" + keyword, Position: 1}},
		Signal:  serp.SignalOK,
	}, nil
}

func TestPoolRun_OutcomesInSubmissionOrder(t *testing.T) {
	backend := &keywordBackend{}
	o := newTestOrchestrator(t, []serp.Backend{backend}, 1)
	pool := NewPool(3, o)

	keywords := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	outcomes := pool.Run(context.Background(), keywords, 5)

	require.Len(t, outcomes, len(keywords))
	for i, kw := range keywords {
		assert.Equal(t, kw, outcomes[i].Keyword)
		require.True(t, outcomes[i].Succeeded())
		assert.Equal(t, kw, outcomes[i].Records[0].Title)
	}
	assert.Equal(t, len(keywords), backend.calls)
}

func TestPoolRun_SingleWorkerFloor(t *testing.T) {
	backend := &keywordBackend{}
	o := newTestOrchestrator(t, []serp.Backend{backend}, 1)
	pool := NewPool(0, o)

	outcomes := pool.Run(context.Background(), []string{"only"}, 5)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded())
}

// One exhausted keyword must not prevent the rest of the job.
func TestPoolRun_PartialFailure(t *testing.T) {
	good := &keywordBackend{}
	// selectiveBackend fails the keyword "blocked" and delegates the rest.
	backend := backendFunc(func(ctx context.Context, keyword string, limit int) (*serp.Response, error) {
		if keyword == "blocked" {
			return &serp.Response{Signal: serp.SignalChallenged, Reason: "recaptcha", Page: []byte("x")}, nil
		}
		return good.Fetch(ctx, keyword, limit)
	})
	o := newTestOrchestrator(t, []serp.Backend{backend}, 1)
	pool := NewPool(2, o)

	outcomes := pool.Run(context.Background(), []string{"alpha", "blocked", "gamma"}, 5)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Succeeded())
	assert.False(t, outcomes[1].Succeeded())
	assert.ErrorIs(t, outcomes[1].Err, ErrExhausted)
	assert.True(t, outcomes[2].Succeeded())
}

// Cancellation mid-job turns still-pending keywords into failed-by-timeout
// outcomes while already-completed ones survive.
func TestPoolRun_TimeoutFailsPendingKeywords(t *testing.T) {
	good := &keywordBackend{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// "deadline" cancels the job and blocks until the context is done, so
	// every keyword behind it in the single-worker queue sees a dead context.
	backend := backendFunc(func(ctx context.Context, keyword string, limit int) (*serp.Response, error) {
		if keyword == "deadline" {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return good.Fetch(ctx, keyword, limit)
	})
	o := newTestOrchestrator(t, []serp.Backend{backend}, 2)
	pool := NewPool(1, o)

	outcomes := pool.Run(ctx, []string{"alpha", "deadline", "gamma"}, 5)

	require.Len(t, outcomes, 3)
	require.True(t, outcomes[0].Succeeded(), "completed keyword survives cancellation")
	assert.Equal(t, "alpha", outcomes[0].Records[0].Title)

	for _, out := range outcomes[1:] {
		assert.False(t, out.Succeeded())
		assert.ErrorIs(t, out.Err, context.Canceled)
		require.NotEmpty(t, out.Attempts)
		assert.Equal(t, "timeout", out.Attempts[len(out.Attempts)-1].Outcome)
	}
}

type backendFunc func(ctx context.Context, keyword string, limit int) (*serp.Response, error)

func (backendFunc) Name() string { return "func" }

func (f backendFunc) Fetch(ctx context.Context, keyword string, limit int) (*serp.Response, error) {
	return f(ctx, keyword, limit)
}
