package audit

import "fmt"

// BreakReason classifies why chain verification failed at an event.
type BreakReason string

const (
	// ReasonHashMismatch means the recomputed entry hash does not match
	// the stored one: the event's own fields were altered.
	ReasonHashMismatch BreakReason = "hash_mismatch"

	// ReasonLinkMismatch means the stored prev_hash does not equal the
	// prior event's entry hash: the chain linkage was altered.
	ReasonLinkMismatch BreakReason = "link_mismatch"

	// ReasonOutOfOrder means the sequence numbers are not strictly
	// increasing.
	ReasonOutOfOrder BreakReason = "out_of_order"

	// ReasonMissingPredecessor means a sequence gap was found: an event
	// was deleted or never recorded.
	ReasonMissingPredecessor BreakReason = "missing_predecessor"
)

// BrokenError reports the first point at which the chain fails
// verification. It is an integrity failure: surfaced prominently, never
// auto-corrected.
type BrokenError struct {
	Sequence uint64
	Reason   BreakReason
	Detail   string
}

func (e *BrokenError) Error() string {
	return fmt.Sprintf("audit chain broken at seq=%d (%s): %s", e.Sequence, e.Reason, e.Detail)
}

// AppendError wraps a failure to append an event to the chain.
type AppendError struct {
	FindingID string
	Cause     error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("audit append failed [finding_id=%s]: %v", e.FindingID, e.Cause)
}

func (e *AppendError) Unwrap() error { return e.Cause }

// NewAppendError creates a new AppendError.
func NewAppendError(findingID string, cause error) *AppendError {
	return &AppendError{FindingID: findingID, Cause: cause}
}
