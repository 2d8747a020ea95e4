package serp

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// challengeMarkers are canonical signs of challenge pages and CAPTCHAs.
// Matching is case-insensitive over the whole body.
var challengeMarkers = []struct {
	marker string
	reason string
}{
	{"unusual traffic", "unusual_traffic_message"},
	{"our systems have detected unusual traffic", "unusual_traffic_message"},
	{"g-recaptcha", "recaptcha"},
	{"recaptcha", "recaptcha"},
	{"are you a robot", "robot_challenge"},
	{"press and hold", "robot_challenge"},
}

// resultNodeSelector matches the DOM shapes a usable results page carries.
const resultNodeSelector = "div.g, div[data-hveid], div[data-ved]"

// Classify inspects a raw results page and classifies it as ok (usable
// results present), challenged (challenge markers present), or empty
// (neither). Detection is deliberately conservative: challenge markers win
// over everything else so that polluted pages never enter the corpus.
func Classify(page []byte) (Signal, string) {
	if len(page) == 0 {
		return SignalEmpty, "empty_body"
	}

	lower := strings.ToLower(string(page))
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m.marker) {
			return SignalChallenged, m.reason
		}
	}
	if strings.Contains(lower, "cloudflare") && strings.Contains(lower, "please enable javascript") {
		return SignalChallenged, "cloudflare_js_challenge"
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return SignalEmpty, "unparseable_html"
	}
	if doc.Find("h3").Length() == 0 && doc.Find(resultNodeSelector).Length() == 0 {
		return SignalEmpty, "no_result_nodes"
	}
	return SignalOK, ""
}
