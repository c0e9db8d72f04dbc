package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// Dates are TEXT in fixed-width UTC RFC3339 so that ORDER BY date is chronological.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS devlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(256) NOT NULL,
    content TEXT NOT NULL,
    date TEXT NOT NULL,
    mood VARCHAR(16),
    time_spent INTEGER CHECK (time_spent IS NULL OR time_spent >= 0),
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_date ON logs(date DESC);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS log_tags (
    log_id INTEGER NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (log_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_log_tags_tag ON log_tags(tag_id);
`
)
