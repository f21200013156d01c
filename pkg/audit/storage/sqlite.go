package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"privacyops/vantage/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite event store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging for concurrent readers.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/vantage.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLite implements audit.EventStore over the shared vantage database.
// The same database file also holds the findings table; the finding
// store shares this connection pool so a transition and its event can
// commit in one transaction.
type SQLite struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLite opens (or creates) the database, applies pragmas, and
// ensures the schema exists.
func NewSQLite(config *SQLiteConfig, logger *slog.Logger) (*SQLite, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, NewStoreError("sqlite", "create_directory", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStoreError("sqlite", "open", err)
	}

	s := &SQLite{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("event store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize applies pragmas and creates the schema idempotently.
func (s *SQLite) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStoreError("sqlite", "enable_wal", err)
		}
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return NewStoreError("sqlite", "enable_foreign_keys", err)
	}
	busyTimeout := s.config.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStoreError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStoreError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStoreError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStoreError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// DB exposes the underlying pool for stores that share the database
// file (findings). Event rows are still only written through Append.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Append inserts a new event at the head of the chain. Sequence and
// prev_hash resolution happen inside the same transaction as the
// insert, so concurrent appends serialize on the database lock.
func (s *SQLite) Append(ctx context.Context, f audit.Fields) (*audit.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStoreError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	e, err := s.AppendTx(ctx, tx, f)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, NewStoreError("sqlite", "commit", err)
	}
	return e, nil
}

// AppendTx appends an event inside a caller-owned transaction. The
// finding tracker uses this to commit a state write and its event
// atomically.
func (s *SQLite) AppendTx(ctx context.Context, tx *sql.Tx, f audit.Fields) (*audit.Event, error) {
	var (
		lastSeq  sql.NullInt64
		lastHash sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		"SELECT seq, entry_hash FROM events ORDER BY seq DESC LIMIT 1",
	).Scan(&lastSeq, &lastHash)
	if err != nil && err != sql.ErrNoRows {
		return nil, NewStoreError("sqlite", "read_head", err)
	}

	seq := uint64(1)
	prevHash := audit.GenesisHash
	if err == nil {
		seq = uint64(lastSeq.Int64) + 1
		prevHash = lastHash.String
	}

	e, err := audit.NewEvent(seq, prevHash, f)
	if err != nil {
		return nil, NewStoreError("sqlite", "hash", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (seq, finding_id, event_type, from_state, to_state, at_utc, note, entry_hash, prev_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Sequence, e.FindingID, e.EventType, e.FromState, e.ToState,
		e.Timestamp, e.Note, e.EntryHash, e.PrevHash,
	)
	if err != nil {
		return nil, NewStoreError("sqlite", "insert", err)
	}
	return e, nil
}

// Events returns every event ordered by sequence.
func (s *SQLite) Events(ctx context.Context) ([]*audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, finding_id, event_type, from_state, to_state, at_utc, note, entry_hash, prev_hash
		FROM events ORDER BY seq`)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	events := []*audit.Event{}
	for rows.Next() {
		e := &audit.Event{}
		if err := rows.Scan(
			&e.Sequence, &e.FindingID, &e.EventType, &e.FromState, &e.ToState,
			&e.Timestamp, &e.Note, &e.EntryHash, &e.PrevHash,
		); err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	return events, nil
}

// EventsForFinding returns the events of one finding ordered by
// sequence. This is a read-only projection for status displays; chain
// verification always walks the global sequence.
func (s *SQLite) EventsForFinding(ctx context.Context, findingID string) ([]*audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, finding_id, event_type, from_state, to_state, at_utc, note, entry_hash, prev_hash
		FROM events WHERE finding_id = ? ORDER BY seq`, findingID)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	events := []*audit.Event{}
	for rows.Next() {
		e := &audit.Event{}
		if err := rows.Scan(
			&e.Sequence, &e.FindingID, &e.EventType, &e.FromState, &e.ToState,
			&e.Timestamp, &e.Note, &e.EntryHash, &e.PrevHash,
		); err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	return events, nil
}

// Head returns the most recent event, or nil for an empty chain.
func (s *SQLite) Head(ctx context.Context) (*audit.Event, error) {
	e := &audit.Event{}
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, finding_id, event_type, from_state, to_state, at_utc, note, entry_hash, prev_hash
		FROM events ORDER BY seq DESC LIMIT 1`,
	).Scan(
		&e.Sequence, &e.FindingID, &e.EventType, &e.FromState, &e.ToState,
		&e.Timestamp, &e.Note, &e.EntryHash, &e.PrevHash,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, NewStoreError("sqlite", "read_head", err)
	}
	return e, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStoreError("sqlite", "close", err)
	}
	s.logger.Info("event store closed")
	return nil
}
