package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/searchmill/serptopics/models"
)

const cseEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE is the Google Custom Search fallback backend. Key and CX are
// opaque capability tokens.
type GoogleCSE struct {
	key      string
	cx       string
	endpoint string
	client   *http.Client
}

// NewGoogleCSE builds a Custom Search backend with the given credentials.
func NewGoogleCSE(key, cx string) *GoogleCSE {
	return &GoogleCSE{
		key:      key,
		cx:       cx,
		endpoint: cseEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GoogleCSE) Name() string { return "google_cse" }

type cseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Fetch queries Custom Search and maps items into rank order. The API caps
// num at 10, so larger limits are clamped.
func (g *GoogleCSE) Fetch(ctx context.Context, keyword string, limit int) (*Response, error) {
	num := limit
	if num > 10 {
		num = 10
	}

	q := url.Values{}
	q.Set("key", g.key)
	q.Set("cx", g.cx)
	q.Set("q", keyword)
	q.Set("num", fmt.Sprintf("%d", num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google cse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google cse returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cse response: %w", err)
	}

	var parsed cseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &Response{Signal: SignalEmpty, Reason: "unparseable_json", Page: body}, nil
	}
	if len(parsed.Items) == 0 {
		return &Response{Signal: SignalEmpty, Reason: "no_results", Page: body}, nil
	}

	results := make([]models.RawResult, 0, num)
	for _, item := range parsed.Items {
		if len(results) >= limit {
			break
		}
		results = append(results, models.RawResult{
			Title:    item.Title,
			Excerpt:  item.Snippet,
			URL:      item.Link,
			Position: len(results) + 1,
		})
	}
	return &Response{Results: results, Signal: SignalOK}, nil
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (g *GoogleCSE) SetEndpoint(u string) { g.endpoint = u }
