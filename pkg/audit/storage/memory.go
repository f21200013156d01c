package storage

import (
	"context"
	"sync"

	"privacyops/vantage/pkg/audit"
)

// Memory is an in-memory event store for tests. It has no engine-level
// append-only guard; Tamper exists precisely so tests can break the
// chain and watch verification catch it.
type Memory struct {
	mu     sync.RWMutex
	events []*audit.Event
}

// NewMemory creates an empty in-memory event store.
func NewMemory() *Memory {
	return &Memory{}
}

// Append builds and stores the event for the next chain position.
func (m *Memory) Append(ctx context.Context, f audit.Fields) (*audit.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := uint64(len(m.events)) + 1
	prevHash := audit.GenesisHash
	if n := len(m.events); n > 0 {
		prevHash = m.events[n-1].EntryHash
	}

	e, err := audit.NewEvent(seq, prevHash, f)
	if err != nil {
		return nil, NewStoreError("memory", "hash", err)
	}
	m.events = append(m.events, e)
	return e, nil
}

// Events returns a copy of the stored events in sequence order.
func (m *Memory) Events(ctx context.Context) ([]*audit.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*audit.Event, len(m.events))
	for i, e := range m.events {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

// Head returns the most recent event, or nil when empty.
func (m *Memory) Head(ctx context.Context) (*audit.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.events) == 0 {
		return nil, nil
	}
	cp := *m.events[len(m.events)-1]
	return &cp, nil
}

// Tamper applies mutate to the stored event at the given sequence.
// Test helper: simulates an attacker editing history at rest.
func (m *Memory) Tamper(seq uint64, mutate func(*audit.Event)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if e.Sequence == seq {
			mutate(e)
			return true
		}
	}
	return false
}

// Drop removes the stored event at the given sequence. Test helper:
// simulates history deletion.
func (m *Memory) Drop(seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.events {
		if e.Sequence == seq {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return true
		}
	}
	return false
}
