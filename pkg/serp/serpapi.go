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

const serpAPIEndpoint = "https://serpapi.com/search"

// SerpAPI is the programmatic SerpAPI backend, used as a fallback when the
// live backend is blocked. The key is an opaque capability token.
type SerpAPI struct {
	key      string
	endpoint string
	client   *http.Client
}

// NewSerpAPI builds a SerpAPI backend with the given key.
func NewSerpAPI(key string) *SerpAPI {
	return &SerpAPI{
		key:      key,
		endpoint: serpAPIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SerpAPI) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

// Fetch queries SerpAPI and maps organic results into rank order.
func (s *SerpAPI) Fetch(ctx context.Context, keyword string, limit int) (*Response, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("engine", "google")
	q.Set("api_key", s.key)
	q.Set("num", fmt.Sprintf("%d", limit))
	q.Set("hl", "en")
	q.Set("gl", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read serpapi response: %w", err)
	}

	var parsed serpAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &Response{Signal: SignalEmpty, Reason: "unparseable_json", Page: body}, nil
	}
	if len(parsed.OrganicResults) == 0 {
		return &Response{Signal: SignalEmpty, Reason: "no_results", Page: body}, nil
	}

	results := make([]models.RawResult, 0, limit)
	for _, item := range parsed.OrganicResults {
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
func (s *SerpAPI) SetEndpoint(u string) { s.endpoint = u }
