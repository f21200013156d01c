package finding

import "fmt"

// TransitionError reports a disallowed state transition. It is a logic
// error in the caller's request: nothing was persisted and no event was
// appended.
type TransitionError struct {
	From BrokerState
	To   BrokerState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// NotFoundError reports that a finding does not exist.
type NotFoundError struct {
	FindingID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("finding not found: %s", e.FindingID)
}

// DuplicateError reports an attempt to create a finding whose
// identifier is already tracked.
type DuplicateError struct {
	FindingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("finding already exists: %s", e.FindingID)
}
