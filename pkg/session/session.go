// Package session manages per-job output directories and export files
// under the results root, plus the index.yaml listing past runs.
package session

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/searchmill/serptopics/models"
)

const DefaultBaseDir = "st-results"

// Info is one entry of the sessions index.
type Info struct {
	JobID           int64     `yaml:"job_id"`
	Created         time.Time `yaml:"created"`
	KeywordCount    int       `yaml:"keyword_count"`
	Success         int       `yaml:"success"`
	Failed          int       `yaml:"failed"`
	K               int       `yaml:"k"`
	KeywordsPreview []string  `yaml:"keywords_preview,omitempty"`
}

// Index is the sessions/index.yaml file.
type Index struct {
	Sessions []Info `yaml:"sessions"`
}

// Dir returns a job's session directory: <base>/sessions/YYYY-MM-DD-<id>.
func Dir(baseDir string, jobID int64, created time.Time) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	name := fmt.Sprintf("%s-%d", created.Format("2006-01-02"), jobID)
	return filepath.Join(baseDir, "sessions", name)
}

// EnsureDir creates a job's session directory.
func EnsureDir(baseDir string, jobID int64, created time.Time) (string, error) {
	dir := Dir(baseDir, jobID, created)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	return dir, nil
}

// WriteResultJSON writes the full job result to result.json.
func WriteResultJSON(dir string, result *models.JobResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job result: %w", err)
	}
	path := filepath.Join(dir, "result.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write result.json: %w", err)
	}
	return nil
}

// WriteClusteredCSV writes the flat annotated record list to
// clustered.csv, one row per record in corpus order.
func WriteClusteredCSV(dir string, result *models.JobResult) error {
	path := filepath.Join(dir, "clustered.csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create clustered.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"keyword", "title", "excerpt", "url", "domain", "position", "cluster", "source", "blocked"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range result.Results {
		row := []string{
			r.Keyword, r.Title, r.Excerpt, r.URL, r.Domain,
			strconv.Itoa(r.Position), strconv.Itoa(r.Cluster), r.Source,
			strconv.FormatBool(r.Blocked),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// UpdateIndex adds or replaces a job's entry in <base>/index.yaml.
func UpdateIndex(baseDir string, info Info) error {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	indexPath := filepath.Join(baseDir, "index.yaml")

	var index Index
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = yaml.Unmarshal(data, &index)
	}

	replaced := false
	for i, existing := range index.Sessions {
		if existing.JobID == info.JobID {
			index.Sessions[i] = info
			replaced = true
			break
		}
	}
	if !replaced {
		index.Sessions = append(index.Sessions, info)
	}

	data, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions index: %w", err)
	}
	if err := os.WriteFile(indexPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write sessions index: %w", err)
	}
	return nil
}

// KeywordsPreview returns the first n keywords for index entries.
func KeywordsPreview(keywords []string, n int) []string {
	if len(keywords) <= n {
		return keywords
	}
	return keywords[:n]
}
