package common

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
)

// ContentHash computes the SHA256 hash of content and returns a hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SplitKeywords parses a comma-separated keyword list from a CLI flag,
// trimming whitespace and dropping empties. Order is preserved.
func SplitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

var slugRE = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// Slug creates a filesystem-safe slug from free text (keyword, URL).
func Slug(s string) string {
	safe := slugRE.ReplaceAllString(s, "_")
	safe = strings.Trim(safe, "_")
	if len(safe) > 80 {
		safe = safe[:80]
	}
	return safe
}

// JobSeed derives a deterministic RNG seed from job parameters so that
// identical input yields identical clustering output.
func JobSeed(keywords []string, perKeyword, k int) int64 {
	h := sha256.New()
	for _, kw := range keywords {
		h.Write([]byte(kw))
		h.Write([]byte("\n"))
	}
	fmt.Fprintf(h, "%d|%d", perKeyword, k)
	sum := h.Sum(nil)
	seed := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	return seed
}
