package ledger

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the ledger database schema.
const Schema = `
-- Generation ledger table
CREATE TABLE IF NOT EXISTS ledger_records (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    created_at TIMESTAMP NOT NULL,

    fingerprint TEXT NOT NULL,
    space_key TEXT NOT NULL,
    page_id TEXT,
    model TEXT NOT NULL,

    outcome TEXT NOT NULL,
    served_from_cache BOOLEAN NOT NULL,
    latency_ms INTEGER,

    prompt_tokens INTEGER,
    completion_tokens INTEGER,

    detected TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for retention and per-space reporting
CREATE INDEX IF NOT EXISTS idx_ledger_created_at ON ledger_records(created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_space_key ON ledger_records(space_key);
CREATE INDEX IF NOT EXISTS idx_ledger_outcome ON ledger_records(outcome);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
