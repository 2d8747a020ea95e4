package serp

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/searchmill/serptopics/models"
)

// snippetSelector covers the snippet container classes seen on results
// pages; the first match wins.
const snippetSelector = ".VwiC3b, .IsZvec, .aCOpRe, .s3v9rd"

// Extract pulls ranked results out of a results page. Primary pass walks
// result containers looking for an h3 title; fallback pass walks bare h3
// tags when the containers yield nothing.
func Extract(page []byte, limit int) ([]models.RawResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	out := make([]models.RawResult, 0, limit)
	doc.Find(resultNodeSelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}
		h3 := block.Find("h3").First()
		if h3.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(h3.Text())
		if title == "" {
			return true
		}

		href, _ := block.Find("a[href]").First().Attr("href")
		snippet := strings.TrimSpace(block.Find(snippetSelector).First().Text())

		out = append(out, models.RawResult{
			Title:    title,
			Excerpt:  snippet,
			URL:      href,
			Position: len(out) + 1,
		})
		return true
	})

	if len(out) > 0 {
		return out, nil
	}

	// Fallback: bare h3 tags, link from the enclosing anchor.
	doc.Find("h3").EachWithBreak(func(_ int, h3 *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}
		title := strings.TrimSpace(h3.Text())
		if title == "" {
			return true
		}
		href, _ := h3.Closest("a[href]").Attr("href")
		out = append(out, models.RawResult{
			Title:    title,
			URL:      href,
			Position: len(out) + 1,
		})
		return true
	})

	return out, nil
}
