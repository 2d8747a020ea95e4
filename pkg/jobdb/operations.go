package jobdb

import (
	"database/sql"
	"fmt"
	"time"
)

// Job is one recorded clustering run.
type Job struct {
	ID           int64
	CreatedAt    time.Time
	KeywordCount int
	PerKeyword   int
	RequestedK   int
	ChosenK      int
	Silhouette   sql.NullFloat64
	SuccessCount int
	FailedCount  int
	RecordCount  int
	SessionDir   string
}

// JobKeyword is one keyword's terminal outcome within a job.
type JobKeyword struct {
	ID          int64
	JobID       int64
	Keyword     string
	Status      string // success, exhausted, timeout
	RecordCount int
	Source      string
}

// AttemptRow is one recorded backend try.
type AttemptRow struct {
	ID           int64
	JobKeywordID int64
	Backend      string
	Outcome      string
	Reason       string
	ElapsedMS    int64
	ArtifactPath string
}

// InsertJob records a new job and returns its id.
func (db *DB) InsertJob(keywordCount, perKeyword, requestedK int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO jobs (keyword_count, per_keyword, requested_k)
		VALUES (?, ?, ?)
	`, keywordCount, perKeyword, requestedK)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}
	return result.LastInsertId()
}

// InsertJobKeyword records one keyword's terminal outcome.
func (db *DB) InsertJobKeyword(jobID int64, keyword, status string, recordCount int, source string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO job_keywords (job_id, keyword, status, record_count, source)
		VALUES (?, ?, ?, ?, ?)
	`, jobID, keyword, status, recordCount, source)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job keyword: %w", err)
	}
	return result.LastInsertId()
}

// InsertAttempt records one backend try for a keyword.
func (db *DB) InsertAttempt(jobKeywordID int64, backend, outcome, reason string, elapsed time.Duration, artifactPath string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO attempts (job_keyword_id, backend, outcome, reason, elapsed_ms, artifact_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`, jobKeywordID, backend, outcome, reason, elapsed.Milliseconds(), artifactPath)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attempt: %w", err)
	}
	return result.LastInsertId()
}

// FinishJob stores the clustering outcome and final counts.
func (db *DB) FinishJob(jobID int64, chosenK int, silhouette *float64, successCount, failedCount, recordCount int, sessionDir string) error {
	var sil sql.NullFloat64
	if silhouette != nil {
		sil = sql.NullFloat64{Float64: *silhouette, Valid: true}
	}
	_, err := db.Exec(`
		UPDATE jobs
		SET chosen_k = ?, silhouette = ?, success_count = ?, failed_count = ?, record_count = ?, session_dir = ?
		WHERE id = ?
	`, chosenK, sil, successCount, failedCount, recordCount, sessionDir, jobID)
	if err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}
	return nil
}

// ListJobs returns the most recent jobs, newest first.
func (db *DB) ListJobs(limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, created_at, keyword_count, per_keyword, requested_k, chosen_k,
		       silhouette, success_count, failed_count, record_count, session_dir
		FROM jobs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.CreatedAt, &j.KeywordCount, &j.PerKeyword, &j.RequestedK,
			&j.ChosenK, &j.Silhouette, &j.SuccessCount, &j.FailedCount, &j.RecordCount, &j.SessionDir); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// GetJobByID returns one job.
func (db *DB) GetJobByID(jobID int64) (*Job, error) {
	var j Job
	err := db.QueryRow(`
		SELECT id, created_at, keyword_count, per_keyword, requested_k, chosen_k,
		       silhouette, success_count, failed_count, record_count, session_dir
		FROM jobs
		WHERE id = ?
	`, jobID).Scan(&j.ID, &j.CreatedAt, &j.KeywordCount, &j.PerKeyword, &j.RequestedK,
		&j.ChosenK, &j.Silhouette, &j.SuccessCount, &j.FailedCount, &j.RecordCount, &j.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %d: %w", jobID, err)
	}
	return &j, nil
}

// GetJobKeywords returns a job's keywords in insertion order.
func (db *DB) GetJobKeywords(jobID int64) ([]JobKeyword, error) {
	rows, err := db.Query(`
		SELECT id, job_id, keyword, status, record_count, source
		FROM job_keywords
		WHERE job_id = ?
		ORDER BY id
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job keywords: %w", err)
	}
	defer rows.Close()

	var keywords []JobKeyword
	for rows.Next() {
		var kw JobKeyword
		if err := rows.Scan(&kw.ID, &kw.JobID, &kw.Keyword, &kw.Status, &kw.RecordCount, &kw.Source); err != nil {
			return nil, fmt.Errorf("failed to scan job keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// GetAttempts returns a keyword's attempts in execution order.
func (db *DB) GetAttempts(jobKeywordID int64) ([]AttemptRow, error) {
	rows, err := db.Query(`
		SELECT id, job_keyword_id, backend, outcome, reason, elapsed_ms, artifact_path
		FROM attempts
		WHERE job_keyword_id = ?
		ORDER BY id
	`, jobKeywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []AttemptRow
	for rows.Next() {
		var a AttemptRow
		if err := rows.Scan(&a.ID, &a.JobKeywordID, &a.Backend, &a.Outcome, &a.Reason, &a.ElapsedMS, &a.ArtifactPath); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// GetArtifactPath returns the diagnostic artifact path of one attempt,
// or an empty string when none was recorded.
func (db *DB) GetArtifactPath(attemptID int64) (string, error) {
	var path string
	err := db.QueryRow(`SELECT artifact_path FROM attempts WHERE id = ?`, attemptID).Scan(&path)
	if err != nil {
		return "", fmt.Errorf("failed to get artifact path for attempt %d: %w", attemptID, err)
	}
	return path, nil
}
