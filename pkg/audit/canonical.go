package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// canonicalEvent is the hashed view of an event: every field except the
// entry hash itself. JSON tags pin field names; RFC 8785 pins key order
// and encoding, so recomputation is reproducible byte for byte.
type canonicalEvent struct {
	AtUTC     string `json:"at_utc"`
	EventType string `json:"event_type"`
	FindingID string `json:"finding_id"`
	FromState string `json:"from_state"`
	Note      string `json:"note"`
	PrevHash  string `json:"prev_hash"`
	Seq       uint64 `json:"seq"`
	ToState   string `json:"to_state"`
}

// canonicalBlob returns the RFC 8785 canonical JSON of the hashed view
// of e.
func canonicalBlob(e *Event) ([]byte, error) {
	raw, err := json.Marshal(canonicalEvent{
		AtUTC:     e.Timestamp,
		EventType: e.EventType,
		FindingID: e.FindingID,
		FromState: e.FromState,
		Note:      e.Note,
		PrevHash:  e.PrevHash,
		Seq:       e.Sequence,
		ToState:   e.ToState,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: marshal event: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("audit: canonicalize event: %w", err)
	}
	return canonical, nil
}

// entryHash computes the hex-encoded SHA-256 digest of the canonical
// serialization of e (all fields except EntryHash).
func entryHash(e *Event) (string, error) {
	blob, err := canonicalBlob(e)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalEntryList returns the RFC 8785 canonical JSON of the full
// ordered entry list, including entry hashes. This is the signing input
// for export envelopes.
func canonicalEntryList(events []*Event) ([]byte, error) {
	if events == nil {
		events = []*Event{}
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("audit: marshal entry list: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("audit: canonicalize entry list: %w", err)
	}
	return canonical, nil
}
