package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the shared vantage database: findings, the append-only
// events table, and schema metadata. Events carry engine-level triggers
// rejecting UPDATE and DELETE; the findings table is ordinary CRUD.
const Schema = `
-- Findings: each broker listing being tracked
CREATE TABLE IF NOT EXISTS findings (
    finding_id   TEXT PRIMARY KEY,
    broker_name  TEXT NOT NULL,
    url          TEXT,
    state        TEXT NOT NULL DEFAULT 'discovered',
    created_utc  TEXT NOT NULL,
    updated_utc  TEXT NOT NULL
);

-- Append-only audit trail
CREATE TABLE IF NOT EXISTS events (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    finding_id   TEXT NOT NULL,
    event_type   TEXT NOT NULL,
    from_state   TEXT NOT NULL,
    to_state     TEXT NOT NULL,
    at_utc       TEXT NOT NULL,
    note         TEXT NOT NULL DEFAULT '',
    entry_hash   TEXT NOT NULL,
    prev_hash    TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (finding_id) REFERENCES findings(finding_id)
);

CREATE INDEX IF NOT EXISTS idx_events_finding_id ON events(finding_id);

-- Engine-level immutability for the audit trail
CREATE TRIGGER IF NOT EXISTS events_no_update
BEFORE UPDATE ON events
BEGIN
    SELECT RAISE(ABORT, 'audit events are append-only');
END;

CREATE TRIGGER IF NOT EXISTS events_no_delete
BEFORE DELETE ON events
BEGIN
    SELECT RAISE(ABORT, 'audit events are append-only');
END;

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InsertSchemaVersion records the schema version idempotently.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the latest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
