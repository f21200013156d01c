package audit

import "fmt"

// Verdict is the outcome of a chain verification walk.
type Verdict struct {
	// Valid is true when every link and every entry hash recomputes.
	Valid bool `json:"valid"`

	// Checked is the number of events examined. On a broken chain this
	// counts events verified before the break.
	Checked int `json:"checked"`

	// BrokenAt, Reason, and Detail describe the first failure. Zero
	// values when Valid.
	BrokenAt uint64      `json:"broken_at,omitempty"`
	Reason   BreakReason `json:"reason,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// Err returns the verdict as a *BrokenError, or nil when valid.
func (v *Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return &BrokenError{Sequence: v.BrokenAt, Reason: v.Reason, Detail: v.Detail}
}

// VerifyEvents walks events in order, recomputing each entry hash and
// checking linkage, ordering, and sequence continuity. It reports the
// first mismatch. An empty sequence is trivially valid.
//
// Events must be supplied in storage order (ascending sequence); the
// walk itself detects violations rather than sorting them away.
func VerifyEvents(events []*Event) *Verdict {
	verdict := &Verdict{Valid: true}

	var prevSeq uint64
	prevHash := GenesisHash

	for i, e := range events {
		if i > 0 {
			if e.Sequence <= prevSeq {
				return broken(verdict, e.Sequence, ReasonOutOfOrder,
					fmt.Sprintf("sequence %d follows %d", e.Sequence, prevSeq))
			}
			if e.Sequence != prevSeq+1 {
				return broken(verdict, e.Sequence, ReasonMissingPredecessor,
					fmt.Sprintf("sequence jumps from %d to %d", prevSeq, e.Sequence))
			}
		}

		if e.PrevHash != prevHash {
			return broken(verdict, e.Sequence, ReasonLinkMismatch,
				fmt.Sprintf("stored prev_hash %s does not match prior entry_hash %s",
					abbrev(e.PrevHash), abbrev(prevHash)))
		}

		recomputed, err := entryHash(e)
		if err != nil {
			return broken(verdict, e.Sequence, ReasonHashMismatch,
				fmt.Sprintf("recompute failed: %v", err))
		}
		if recomputed != e.EntryHash {
			return broken(verdict, e.Sequence, ReasonHashMismatch,
				fmt.Sprintf("recomputed %s does not match stored %s",
					abbrev(recomputed), abbrev(e.EntryHash)))
		}

		verdict.Checked++
		prevSeq = e.Sequence
		prevHash = e.EntryHash
	}

	return verdict
}

func broken(v *Verdict, seq uint64, reason BreakReason, detail string) *Verdict {
	v.Valid = false
	v.BrokenAt = seq
	v.Reason = reason
	v.Detail = detail
	return v
}

// abbrev shortens a hash for error messages. Empty hashes render as
// "genesis" to keep messages readable.
func abbrev(hash string) string {
	if hash == GenesisHash {
		return "genesis"
	}
	if len(hash) > 12 {
		return hash[:12] + "..."
	}
	return hash
}
