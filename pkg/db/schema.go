package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the sidecar
	// database schema. The sidecar holds everything the day files cannot
	// represent: the soft-delete trash plus per-entry likes and comments.
	// Day entries themselves never live here; their canonical form is the
	// Markdown day file.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS pensieve_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS deleted_entries (
    id UUID PRIMARY KEY,
    entry_id TEXT NOT NULL,
    original_date_key TEXT NOT NULL,
    entry_time REAL NOT NULL,
    has_time BOOLEAN NOT NULL DEFAULT FALSE,
    source VARCHAR(64) NOT NULL DEFAULT 'user',
    content TEXT NOT NULL,
    important BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS likes (
    date_key TEXT NOT NULL,
    entry_id TEXT NOT NULL,
    liked_at REAL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_likes_entry ON likes(date_key, entry_id);

CREATE TABLE IF NOT EXISTS comments (
    id UUID PRIMARY KEY,
    date_key TEXT NOT NULL,
    entry_id TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_comments_entry ON comments(date_key, entry_id);
`
)
