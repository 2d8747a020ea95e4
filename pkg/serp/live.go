package serp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/searchmill/serptopics/models"
)

const liveSearchURL = "https://www.google.com/search"

// Live is the browser-style live retrieval backend. It randomizes its
// presented identity (user agent, viewport hints) per attempt and paces
// requests with a randomized human-like delay. Both are tuning knobs, not
// correctness-affecting.
type Live struct {
	client    *http.Client
	searchURL string
	uaPool    []string
	viewports []models.Viewport
	minPause  time.Duration
	maxPause  time.Duration
	logger    *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLive builds the live backend from config. The proxy string is opaque;
// it is handed to the transport as-is.
func NewLive(cfg models.LiveConfig, uaPool []string, viewports []models.Viewport, seed int64, logger *slog.Logger) (*Live, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Live{
		client:    &http.Client{Transport: transport, Timeout: timeout},
		searchURL: liveSearchURL,
		uaPool:    uaPool,
		viewports: viewports,
		minPause:  time.Duration(cfg.MinPauseMS) * time.Millisecond,
		maxPause:  time.Duration(cfg.MaxPauseMS) * time.Millisecond,
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (l *Live) Name() string { return "live" }

// identity picks a user agent and viewport for one attempt.
func (l *Live) identity() (string, models.Viewport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ua := ""
	if len(l.uaPool) > 0 {
		ua = l.uaPool[l.rng.Intn(len(l.uaPool))]
	}
	vp := models.Viewport{Width: 1366, Height: 768}
	if len(l.viewports) > 0 {
		vp = l.viewports[l.rng.Intn(len(l.viewports))]
	}
	return ua, vp
}

// pace sleeps a randomized human-like interval, honoring cancellation.
func (l *Live) pace(ctx context.Context) {
	if l.maxPause <= 0 {
		return
	}
	l.mu.Lock()
	span := l.maxPause - l.minPause
	d := l.minPause
	if span > 0 {
		d += time.Duration(l.rng.Int63n(int64(span)))
	}
	l.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Fetch retrieves one results page. Challenge and empty pages come back as
// signals with the raw body attached for diagnostics; only network-level
// failures return an error.
func (l *Live) Fetch(ctx context.Context, keyword string, limit int) (*Response, error) {
	l.pace(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", keyword)
	q.Set("num", fmt.Sprintf("%d", limit))
	q.Set("hl", "en")
	q.Set("gl", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	ua, vp := l.identity()
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Sec-CH-Viewport-Width", fmt.Sprintf("%d", vp.Width))
	req.Header.Set("Sec-CH-Viewport-Height", fmt.Sprintf("%d", vp.Height))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read results page: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return &Response{Signal: SignalChallenged, Reason: fmt.Sprintf("status_%d", resp.StatusCode), Page: body}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d from live backend", resp.StatusCode)
	}

	signal, reason := Classify(body)
	if signal != SignalOK {
		l.logger.Warn("Live attempt did not yield results", "keyword", keyword, "signal", signal, "reason", reason)
		return &Response{Signal: signal, Reason: reason, Page: body}, nil
	}

	results, err := Extract(body, limit)
	if err != nil {
		return &Response{Signal: SignalEmpty, Reason: "unparseable_html", Page: body}, nil
	}
	if len(results) == 0 {
		return &Response{Signal: SignalEmpty, Reason: "no_results", Page: body}, nil
	}
	return &Response{Results: results, Signal: SignalOK, Page: body}, nil
}

// SetSearchURL overrides the search endpoint. Used by tests.
func (l *Live) SetSearchURL(u string) { l.searchURL = u }
