package audit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Envelope is the derived export projection of the chain: the ordered
// entry list, the verification verdict, and an optional signature. It
// is never persisted and exporting never mutates stored events.
type Envelope struct {
	GeneratedAt string   `json:"generated_at"`
	Entries     []*Event `json:"entries"`
	Verdict     *Verdict `json:"verdict"`

	// Signature is the hex HMAC-SHA256 over the canonical serialization
	// of Entries, present only when a signing key was configured. The
	// key itself never appears in the export.
	Signature string `json:"signature,omitempty"`
}

// Export builds an envelope over the full stored chain. A nil or empty
// signingKey produces an unsigned envelope. Export succeeds even when
// the chain is broken; the verdict carries the break location so
// operators can see where.
func (c *Chain) Export(ctx context.Context, signingKey []byte) (*Envelope, error) {
	events, err := c.store.Events(ctx)
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		GeneratedAt: Now(),
		Entries:     events,
		Verdict:     VerifyEvents(events),
	}

	if len(signingKey) > 0 {
		sig, err := SignEntries(events, signingKey)
		if err != nil {
			return nil, err
		}
		env.Signature = sig
	}

	c.logger.Info("audit chain exported",
		"entries", len(env.Entries),
		"valid", env.Verdict.Valid,
		"signed", env.Signature != "",
	)
	return env, nil
}

// SignEntries computes the hex HMAC-SHA256 of the canonical entry list
// under key. Identical entries and key yield an identical signature.
func SignEntries(events []*Event, key []byte) (string, error) {
	blob, err := canonicalEntryList(events)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(blob)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// WriteJSON writes the envelope as indented JSON.
func (env *Envelope) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("audit: export json: %w", err)
	}
	return nil
}

// csvHeader lists the entry columns in export order.
var csvHeader = []string{
	"seq", "finding_id", "event_type", "from_state", "to_state",
	"at_utc", "note", "entry_hash", "prev_hash",
}

// WriteCSV writes the entry list as CSV with a header row, followed by
// comment rows carrying the verdict and signature so a flat file still
// transports the whole envelope.
func (env *Envelope) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("audit: export csv: %w", err)
	}
	for _, e := range env.Entries {
		row := []string{
			strconv.FormatUint(e.Sequence, 10),
			e.FindingID,
			e.EventType,
			e.FromState,
			e.ToState,
			e.Timestamp,
			e.Note,
			e.EntryHash,
			e.PrevHash,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("audit: export csv: %w", err)
		}
	}

	verdict := "valid"
	if !env.Verdict.Valid {
		verdict = fmt.Sprintf("broken_at=%d reason=%s", env.Verdict.BrokenAt, env.Verdict.Reason)
	}
	trailer := [][]string{
		{"#verdict", verdict},
	}
	if env.Signature != "" {
		trailer = append(trailer, []string{"#signature", env.Signature})
	}
	for _, row := range trailer {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("audit: export csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("audit: export csv: %w", err)
	}
	return nil
}
