package audit

import (
	"context"
	"log/slog"
)

// Chain is the audit log facade: it appends events through an
// EventStore, verifies the stored sequence, and produces export
// envelopes. The chain itself is stateless; all ordering decisions live
// in the store's transaction.
type Chain struct {
	store  EventStore
	logger *slog.Logger
}

// NewChain creates a chain over the given store.
func NewChain(store EventStore, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		store:  store,
		logger: logger.With("component", "audit.chain"),
	}
}

// Append records a new event at the head of the chain. The note in f
// must already be sanitized; this layer never sees pre-sanitize text.
func (c *Chain) Append(ctx context.Context, f Fields) (*Event, error) {
	e, err := c.store.Append(ctx, f)
	if err != nil {
		return nil, NewAppendError(f.FindingID, err)
	}

	c.logger.Info("audit event appended",
		"seq", e.Sequence,
		"finding_id", e.FindingID,
		"transition", e.FromState+"->"+e.ToState,
		"entry_hash", abbrev(e.EntryHash),
	)
	return e, nil
}

// Verify walks the full stored chain and reports a verdict. It is
// read-only and idempotent; re-running it on an unchanged store yields
// the same verdict.
func (c *Chain) Verify(ctx context.Context) (*Verdict, error) {
	events, err := c.store.Events(ctx)
	if err != nil {
		return nil, err
	}

	verdict := VerifyEvents(events)
	if verdict.Valid {
		c.logger.Info("audit chain verified", "events_checked", verdict.Checked)
	} else {
		c.logger.Error("audit chain broken",
			"broken_at", verdict.BrokenAt,
			"reason", string(verdict.Reason),
			"detail", verdict.Detail,
		)
	}
	return verdict, nil
}

// Head returns the most recent event, or nil for an empty chain.
func (c *Chain) Head(ctx context.Context) (*Event, error) {
	return c.store.Head(ctx)
}
