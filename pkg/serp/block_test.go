package serp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_EmptyBody(t *testing.T) {
	signal, reason := Classify(nil)
	assert.Equal(t, SignalEmpty, signal)
	assert.Equal(t, "empty_body", reason)
}

func TestClassify_ChallengeMarkers(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		reason string
	}{
		{
			"unusual traffic interstitial",
			`<html><body>Our systems have detected unusual traffic from your computer network.</body></html>`,
			"unusual_traffic_message",
		},
		{
			"recaptcha widget",
			`<html><body><div class="g-recaptcha" data-sitekey="x"></div></body></html>`,
			"recaptcha",
		},
		{
			"robot challenge",
			`<html><body><h1>Are you a robot?</h1></body></html>`,
			"robot_challenge",
		},
		{
			"cloudflare js challenge",
			`<html><body>Checking your browser. Cloudflare. Please enable JavaScript to continue.</body></html>`,
			"cloudflare_js_challenge",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal, reason := Classify([]byte(tt.page))
			assert.Equal(t, SignalChallenged, signal)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestClassify_NoResultNodes(t *testing.T) {
	page := `<html><body><p>Nothing to see here.</p></body></html>`
	signal, reason := Classify([]byte(page))
	assert.Equal(t, SignalEmpty, signal)
	assert.Equal(t, "no_result_nodes", reason)
}

func TestClassify_UsableResultsPage(t *testing.T) {
	page := `<html><body>
		<div class="g"><h3>First result</h3><a href="https://example.com">x</a></div>
	</body></html>`
	signal, reason := Classify([]byte(page))
	assert.Equal(t, SignalOK, signal)
	assert.Empty(t, reason)
}

// A challenge marker on a page that also carries result-shaped nodes must
// still classify as challenged.
func TestClassify_ChallengeWinsOverResults(t *testing.T) {
	page := `<html><body>
		<div class="g"><h3>Leftover result</h3></div>
		<div>Our systems have detected unusual traffic.</div>
	</body></html>`
	signal, _ := Classify([]byte(page))
	assert.Equal(t, SignalChallenged, signal)
}
