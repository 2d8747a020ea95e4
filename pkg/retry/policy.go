// Package retry provides the bounded exponential-backoff schedule used
// between retrieval attempts on a single backend.
package retry

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Policy is a backoff schedule: exponential growth with
// multiplicative jitter, capped at MaxDelay, bounded by MaxAttempts.
// The jitter RNG is seeded at construction and shared by every keyword
// worker, so draws are mutex-guarded.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64 // fraction of the delay randomized, in [0, 1]

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPolicy builds a Policy with the given bounds and a seeded jitter RNG.
func NewPolicy(maxAttempts int, base, max time.Duration, jitter float64, seed int64) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   base,
		MaxDelay:    max,
		Jitter:      jitter,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Delay returns the wait before the next try after attempt n (1-based).
// Growth is base * 2^(n-1), jittered multiplicatively, capped at MaxDelay.
func (p *Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if p.Jitter > 0 {
		p.mu.Lock()
		draw := p.rng.Float64()
		p.mu.Unlock()
		// Scale by a factor in [1-jitter, 1+jitter].
		d *= 1 + p.Jitter*(2*draw-1)
	}
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
