package finding

import "fmt"

// BrokerState is the lifecycle state of a finding. The enum is closed:
// ParseState rejects anything else at the boundary.
type BrokerState string

const (
	// StateDiscovered: the listing was found on a broker.
	StateDiscovered BrokerState = "discovered"
	// StateConfirmed: the user manually confirmed the listing is theirs.
	StateConfirmed BrokerState = "confirmed"
	// StateSubmitted: an opt-out request was submitted to the broker.
	StateSubmitted BrokerState = "submitted"
	// StatePending: the broker acknowledged and removal is in progress.
	StatePending BrokerState = "pending"
	// StateVerified: the user verified the listing is gone.
	StateVerified BrokerState = "verified"
	// StateResurfaced: a previously tracked listing reappeared.
	StateResurfaced BrokerState = "resurfaced"
)

// allowedTransitions is the full edge set. Everything absent is
// rejected, including self-transitions and any edge out of resurfaced.
var allowedTransitions = map[BrokerState][]BrokerState{
	StateDiscovered: {StateConfirmed},
	StateConfirmed:  {StateSubmitted},
	StateSubmitted:  {StatePending},
	StatePending:    {StateVerified, StateResurfaced},
	StateVerified:   {StateResurfaced},
	StateResurfaced: {},
}

// ParseState converts a string into a BrokerState.
func ParseState(s string) (BrokerState, error) {
	state := BrokerState(s)
	if _, ok := allowedTransitions[state]; !ok {
		return "", fmt.Errorf("finding: unknown state %q", s)
	}
	return state, nil
}

// CanTransition reports whether moving from one state to another is
// allowed.
func CanTransition(from, to BrokerState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// States returns all valid states in lifecycle order.
func States() []BrokerState {
	return []BrokerState{
		StateDiscovered, StateConfirmed, StateSubmitted,
		StatePending, StateVerified, StateResurfaced,
	}
}
