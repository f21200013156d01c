package vault

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS artifacts (
	artifact_id TEXT PRIMARY KEY,
	finding_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	size INTEGER NOT NULL,
	path TEXT NOT NULL,
	created_utc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_finding_id ON artifacts(finding_id);
`

// Record describes one stored artifact as tracked by the index.
type Record struct {
	ArtifactID  string `json:"artifact_id"`
	FindingID   string `json:"finding_id"`
	Filename    string `json:"filename"`
	ContentHash string `json:"content_hash"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
	CreatedUTC  string `json:"created_utc"`
}

// index is the SQLite-backed artifact catalog.
type index struct {
	db *sql.DB
}

func openIndex(path string) (*index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact index: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize artifact index: %w", err)
	}
	return &index{db: db}, nil
}

func (ix *index) insert(ctx context.Context, r *Record) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO artifacts (artifact_id, finding_id, filename, content_hash, size, path, created_utc)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ArtifactID, r.FindingID, r.Filename, r.ContentHash, r.Size, r.Path, r.CreatedUTC)
	if err != nil {
		return fmt.Errorf("failed to index artifact: %w", err)
	}
	return nil
}

func (ix *index) get(ctx context.Context, artifactID string) (*Record, error) {
	var r Record
	err := ix.db.QueryRowContext(ctx,
		`SELECT artifact_id, finding_id, filename, content_hash, size, path, created_utc
		 FROM artifacts WHERE artifact_id = ?`, artifactID).
		Scan(&r.ArtifactID, &r.FindingID, &r.Filename, &r.ContentHash, &r.Size, &r.Path, &r.CreatedUTC)
	if err == sql.ErrNoRows {
		return nil, NewNotFoundError(artifactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact index: %w", err)
	}
	return &r, nil
}

func (ix *index) listForFinding(ctx context.Context, findingID string) ([]*Record, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT artifact_id, finding_id, filename, content_hash, size, path, created_utc
		 FROM artifacts WHERE finding_id = ? ORDER BY created_utc`, findingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ArtifactID, &r.FindingID, &r.Filename, &r.ContentHash,
			&r.Size, &r.Path, &r.CreatedUTC); err != nil {
			return nil, fmt.Errorf("failed to scan artifact record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (ix *index) close() error {
	return ix.db.Close()
}
