package finding

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/pii"
)

// Finding is one tracked broker listing.
type Finding struct {
	ID        string      `json:"finding_id"`
	Broker    string      `json:"broker_name"`
	URL       string      `json:"url,omitempty"`
	State     BrokerState `json:"state"`
	CreatedAt string      `json:"created_utc"`
	UpdatedAt string      `json:"updated_utc"`
}

// Store is the findings repository over the shared vantage database.
// It owns the findings table only; event rows are written through the
// audit event store, sharing this store's connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates a findings store over an already-initialized
// database (the audit SQLite store creates the schema).
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "finding.store"),
	}
}

// Create inserts a new finding in the discovered state. All inputs run
// through the PII guard's whitelist validators before touching SQL.
func (s *Store) Create(ctx context.Context, id, broker, url string) (*Finding, error) {
	id, err := pii.ValidateID(id)
	if err != nil {
		return nil, err
	}
	broker, err = pii.ValidateBrokerName(broker)
	if err != nil {
		return nil, err
	}
	url, err = pii.ValidateURL(url)
	if err != nil {
		return nil, err
	}

	now := audit.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO findings (finding_id, broker_name, url, state, created_utc, updated_utc)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, broker, url, string(StateDiscovered), now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, &DuplicateError{FindingID: id}
		}
		return nil, err
	}

	f := &Finding{
		ID:        id,
		Broker:    broker,
		URL:       url,
		State:     StateDiscovered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.logger.Info("finding created", "finding_id", id, "broker", broker)
	return f, nil
}

// Get fetches a finding by identifier. Returns NotFoundError when the
// finding does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Finding, error) {
	id, err := pii.ValidateID(id)
	if err != nil {
		return nil, err
	}

	f := &Finding{}
	var state string
	var url sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT finding_id, broker_name, url, state, created_utc, updated_utc
		FROM findings WHERE finding_id = ?`, id,
	).Scan(&f.ID, &f.Broker, &url, &state, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{FindingID: id}
	}
	if err != nil {
		return nil, err
	}
	f.URL = url.String
	f.State = BrokerState(state)
	return f, nil
}

// List returns all findings ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT finding_id, broker_name, url, state, created_utc, updated_utc
		FROM findings ORDER BY created_utc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := []*Finding{}
	for rows.Next() {
		f := &Finding{}
		var state string
		var url sql.NullString
		if err := rows.Scan(&f.ID, &f.Broker, &url, &state, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.URL = url.String
		f.State = BrokerState(state)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// updateStateTx writes the new state inside a caller-owned transaction.
func (s *Store) updateStateTx(ctx context.Context, tx *sql.Tx, id string, to BrokerState, now string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE findings SET state = ?, updated_utc = ? WHERE finding_id = ?",
		string(to), now, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{FindingID: id}
	}
	return nil
}
