package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpAPIFetch_MapsOrganicResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "standing desk", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"organic_results": [
			{"title": "Desk A", "snippet": "About desk A", "link": "https://a.example.com"},
			{"title": "Desk B", "snippet": "About desk B", "link": "https://b.example.com"},
			{"title": "Desk C", "snippet": "About desk C", "link": "https://c.example.com"}
		]}`)
	}))
	defer server.Close()

	backend := NewSerpAPI("secret")
	backend.SetEndpoint(server.URL)

	resp, err := backend.Fetch(context.Background(), "standing desk", 2)
	require.NoError(t, err)
	assert.Equal(t, SignalOK, resp.Signal)
	require.Len(t, resp.Results, 2) // limit honored
	assert.Equal(t, "Desk A", resp.Results[0].Title)
	assert.Equal(t, 1, resp.Results[0].Position)
	assert.Equal(t, "https://b.example.com", resp.Results[1].URL)
}

func TestSerpAPIFetch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"organic_results": []}`)
	}))
	defer server.Close()

	backend := NewSerpAPI("secret")
	backend.SetEndpoint(server.URL)

	resp, err := backend.Fetch(context.Background(), "desk", 10)
	require.NoError(t, err)
	assert.Equal(t, SignalEmpty, resp.Signal)
	assert.Equal(t, "no_results", resp.Reason)
}

func TestSerpAPIFetch_UnparseableJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	backend := NewSerpAPI("secret")
	backend.SetEndpoint(server.URL)

	resp, err := backend.Fetch(context.Background(), "desk", 10)
	require.NoError(t, err)
	assert.Equal(t, SignalEmpty, resp.Signal)
	assert.Equal(t, "unparseable_json", resp.Reason)
}

func TestSerpAPIFetch_Non200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	backend := NewSerpAPI("bad-key")
	backend.SetEndpoint(server.URL)

	_, err := backend.Fetch(context.Background(), "desk", 10)
	assert.Error(t, err)
}
