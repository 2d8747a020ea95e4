package serp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
	<div class="g">
		<a href="https://example.com/one"><h3>First Result</h3></a>
		<div class="VwiC3b">Snippet for the first result.</div>
	</div>
	<div class="g">
		<a href="/url?q=https://example.org/two&amp;ved=abc"><h3>Second Result</h3></a>
		<div class="IsZvec">Snippet for the second result.</div>
	</div>
	<div class="g">
		<a href="https://example.net/three"><h3>Third Result</h3></a>
	</div>
</body></html>`

func TestExtract_PrimaryPass(t *testing.T) {
	results, err := Extract([]byte(resultsPage), 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "First Result", results[0].Title)
	assert.Equal(t, "https://example.com/one", results[0].URL)
	assert.Equal(t, "Snippet for the first result.", results[0].Excerpt)
	assert.Equal(t, 1, results[0].Position)

	assert.Equal(t, "Second Result", results[1].Title)
	assert.Equal(t, 2, results[1].Position)

	assert.Equal(t, "Third Result", results[2].Title)
	assert.Empty(t, results[2].Excerpt)
	assert.Equal(t, 3, results[2].Position)
}

func TestExtract_HonorsLimit(t *testing.T) {
	results, err := Extract([]byte(resultsPage), 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestExtract_FallbackPass(t *testing.T) {
	page := `<html><body>
		<a href="https://example.com/a"><h3>Bare Heading A</h3></a>
		<a href="https://example.com/b"><h3>Bare Heading B</h3></a>
	</body></html>`
	results, err := Extract([]byte(page), 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Bare Heading A", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, 1, results[0].Position)
}

func TestExtract_NoResults(t *testing.T) {
	results, err := Extract([]byte(`<html><body><p>empty</p></body></html>`), 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
