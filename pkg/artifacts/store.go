// Package artifacts stores diagnostic snapshots of blocked or empty
// results pages. The store is write-once: the core never reads a snapshot
// back, it only hands out the path for inspection.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/searchmill/serptopics/internal/common"
)

const DefaultBaseDir = "st-debug"

// Store writes diagnostic page snapshots keyed by keyword and timestamp.
// Keys are unique per write, so concurrent keyword workers need no
// coordination beyond atomic file creation.
type Store struct {
	baseDir string
}

// NewStore creates the store and its base directory.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes one snapshot and returns its path. The filename carries the
// keyword slug, a nanosecond timestamp, and a short content hash, which
// keeps keys unique even for back-to-back attempts on the same keyword.
func (s *Store) Save(keyword string, page []byte) (string, error) {
	slug := common.Slug(keyword)
	if slug == "" {
		slug = "keyword"
	}
	ts := time.Now().UTC().Format("20060102T150405.000000000")
	hash := common.ContentHash(page)
	name := fmt.Sprintf("%s_%s_%s.html", slug, ts, hash[:12])

	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, page, 0600); err != nil {
		return "", fmt.Errorf("failed to write diagnostic snapshot: %w", err)
	}
	return path, nil
}

// BaseDir returns the store's base directory.
func (s *Store) BaseDir() string { return s.baseDir }
