package finding

import (
	"context"
	"fmt"
	"log/slog"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
	"privacyops/vantage/pkg/pii"
)

// EvidenceVault stores an evidence artifact and returns its identity.
// Implemented by the vault package; findings only need the reference
// that goes into the event note.
type EvidenceVault interface {
	StoreArtifact(ctx context.Context, findingID string, data []byte, filename string) (artifactID, contentHash string, err error)
}

// TransitionRequest describes one requested state change.
type TransitionRequest struct {
	FindingID string
	To        BrokerState

	// Note is raw free text from the user; the tracker sanitizes it
	// before it reaches the vault reference or the audit chain.
	Note string

	// Evidence, when non-nil, is a proof artifact to store in the vault
	// before the event is appended. Its artifact id and content hash
	// are attached to the event note.
	Evidence         []byte
	EvidenceFilename string
}

// Tracker validates transitions and, on acceptance, persists the new
// state and appends the audit event in one transaction. It is the only
// writer of finding states.
type Tracker struct {
	store    *Store
	events   *storage.SQLite
	vault    EvidenceVault
	sanitize func(string) string
	logger   *slog.Logger
}

// NewTracker wires the tracker to its collaborators. vault may be nil
// when evidence payloads are not used. sanitize defaults to the PII
// guard's note sanitizer.
func NewTracker(store *Store, events *storage.SQLite, vault EvidenceVault, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:    store,
		events:   events,
		vault:    vault,
		sanitize: pii.SanitizeNote,
		logger:   logger.With("component", "finding.tracker"),
	}
}

// Transition applies one state change. On rejection nothing is written:
// no state update, no vault artifact, no event. On acceptance the state
// write and the event append commit together.
func (t *Tracker) Transition(ctx context.Context, req TransitionRequest) (*audit.Event, error) {
	id, err := pii.ValidateID(req.FindingID)
	if err != nil {
		return nil, err
	}
	if _, err := ParseState(string(req.To)); err != nil {
		return nil, err
	}

	f, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(f.State, req.To) {
		return nil, &TransitionError{From: f.State, To: req.To}
	}

	note := t.sanitize(req.Note)

	if req.Evidence != nil {
		if t.vault == nil {
			return nil, fmt.Errorf("finding: evidence payload supplied but no vault configured")
		}
		artifactID, contentHash, err := t.vault.StoreArtifact(ctx, id, req.Evidence, req.EvidenceFilename)
		if err != nil {
			return nil, err
		}
		ref := fmt.Sprintf("artifact=%s sha256=%s", artifactID, contentHash)
		if note == "" {
			note = ref
		} else {
			note = note + " " + ref
		}
	}

	now := audit.Now()
	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := t.store.updateStateTx(ctx, tx, id, req.To, now); err != nil {
		return nil, err
	}

	event, err := t.events.AppendTx(ctx, tx, audit.Fields{
		FindingID: id,
		EventType: "state." + string(req.To),
		FromState: string(f.State),
		ToState:   string(req.To),
		Timestamp: now,
		Note:      note,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	t.logger.Info("transition accepted",
		"finding_id", id,
		"from", string(f.State),
		"to", string(req.To),
		"seq", event.Sequence,
	)
	return event, nil
}
