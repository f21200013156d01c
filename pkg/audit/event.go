package audit

import (
	"context"
	"time"
)

// GenesisHash is the prev_hash of the first event in the chain.
const GenesisHash = ""

// Event is one immutable entry in the audit chain. Once appended it is
// never updated or deleted; the storage layer enforces this with
// engine-level triggers and the hash chain makes any bypass detectable.
type Event struct {
	// Sequence is the global, gap-free position of the event.
	Sequence uint64 `json:"seq"`

	// FindingID identifies the finding this event belongs to.
	FindingID string `json:"finding_id"`

	// EventType is a stable tag derived from the transition target,
	// e.g. "state.confirmed".
	EventType string `json:"event_type"`

	// FromState and ToState record the transition endpoints.
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`

	// Timestamp is the RFC 3339 UTC time the transition was accepted.
	Timestamp string `json:"at_utc"`

	// Note is free text, already sanitized by the PII guard before it
	// reaches this layer. It is part of the hashed material.
	Note string `json:"note"`

	// EntryHash is the SHA-256 hex digest of the canonical
	// serialization of every other field.
	EntryHash string `json:"entry_hash"`

	// PrevHash is the EntryHash of the previous event, or GenesisHash
	// for the first one.
	PrevHash string `json:"prev_hash"`
}

// Fields are the caller-supplied parts of an event. Sequence, hashes,
// and chain position are assigned at append time.
type Fields struct {
	FindingID string
	EventType string
	FromState string
	ToState   string
	Timestamp string
	Note      string
}

// Now returns the timestamp format used for event fields.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// EventStore persists events as insert-only rows. Append must resolve
// the next sequence and the previous entry hash atomically with the
// insert, so concurrent writers serialize at the store's transaction
// boundary.
type EventStore interface {
	// Append builds the event for the next chain position via NewEvent
	// and inserts it in a single transaction.
	Append(ctx context.Context, f Fields) (*Event, error)

	// Events returns all events ordered by sequence.
	Events(ctx context.Context) ([]*Event, error)

	// Head returns the most recently appended event, or nil when the
	// chain is empty.
	Head(ctx context.Context) (*Event, error)
}

// NewEvent computes the entry hash for an event at the given chain
// position. It is the single place entry hashes are produced, used by
// both append and verification paths.
func NewEvent(seq uint64, prevHash string, f Fields) (*Event, error) {
	e := &Event{
		Sequence:  seq,
		FindingID: f.FindingID,
		EventType: f.EventType,
		FromState: f.FromState,
		ToState:   f.ToState,
		Timestamp: f.Timestamp,
		Note:      f.Note,
		PrevHash:  prevHash,
	}
	hash, err := entryHash(e)
	if err != nil {
		return nil, err
	}
	e.EntryHash = hash
	return e, nil
}
