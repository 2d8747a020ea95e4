package models

import (
	"net/url"
	"regexp"
	"strings"
)

// RawResult is one entry of a backend's raw result list, in rank order
// starting at position 1. Backends return these untouched; normalization
// into Records happens in one place.
type RawResult struct {
	Title    string
	Excerpt  string
	URL      string
	Position int
}

// Record is the canonical unit of retrieved content. Immutable once
// normalized. Identity within a job is (keyword, url, position).
type Record struct {
	Keyword  string `json:"keyword"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Position int    `json:"position"`
	Source   string `json:"source"`
	Blocked  bool   `json:"blocked"`
}

// Text returns the record's clustering text: title and excerpt joined.
func (r Record) Text() string {
	return strings.TrimSpace(r.Title + " " + r.Excerpt)
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	redirectRE   = regexp.MustCompile(`^/url\?q=(https?://[^&]+)`)
)

// NormalizeText collapses runs of whitespace and trims the edges.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// CleanResultURL unwraps redirect-style links ("/url?q=https://...") and
// trims whitespace. Anything else passes through unchanged.
func CleanResultURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := redirectRE.FindStringSubmatch(raw); m != nil {
		if unescaped, err := url.QueryUnescape(m[1]); err == nil {
			return unescaped
		}
		return m[1]
	}
	return raw
}

// DomainOf derives the registrable host from a result URL, with the
// leading "www." stripped. Unparseable URLs yield an empty domain.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// NewRecord normalizes a backend's raw result into a Record.
func NewRecord(keyword, source string, raw RawResult) Record {
	cleanURL := CleanResultURL(raw.URL)
	return Record{
		Keyword:  keyword,
		Title:    NormalizeText(raw.Title),
		Excerpt:  NormalizeText(raw.Excerpt),
		URL:      cleanURL,
		Domain:   DomainOf(cleanURL),
		Position: raw.Position,
		Source:   source,
	}
}
