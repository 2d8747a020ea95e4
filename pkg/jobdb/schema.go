package jobdb

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    keyword_count INTEGER NOT NULL,
    per_keyword INTEGER NOT NULL,
    requested_k INTEGER NOT NULL DEFAULT 0,
    chosen_k INTEGER NOT NULL DEFAULT 0,
    silhouette REAL,
    success_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0,
    record_count INTEGER NOT NULL DEFAULT 0,
    session_dir TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS job_keywords (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id INTEGER NOT NULL,
    keyword TEXT NOT NULL,
    status TEXT NOT NULL,
    record_count INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_keyword_id INTEGER NOT NULL,
    backend TEXT NOT NULL,
    outcome TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    elapsed_ms INTEGER NOT NULL DEFAULT 0,
    artifact_path TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (job_keyword_id) REFERENCES job_keywords(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_job_keywords_job_id ON job_keywords(job_id);
CREATE INDEX IF NOT EXISTS idx_attempts_job_keyword_id ON attempts(job_keyword_id);
`
