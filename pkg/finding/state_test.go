package finding

import "testing"

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := []struct{ from, to BrokerState }{
		{StateDiscovered, StateConfirmed},
		{StateConfirmed, StateSubmitted},
		{StateSubmitted, StatePending},
		{StatePending, StateVerified},
		{StatePending, StateResurfaced},
		{StateVerified, StateResurfaced},
	}
	for _, edge := range allowed {
		if !CanTransition(edge.from, edge.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", edge.from, edge.to)
		}
	}
}

func TestCanTransition_RejectedEdges(t *testing.T) {
	rejected := []struct{ from, to BrokerState }{
		// Skipping states
		{StateDiscovered, StateVerified},
		{StateDiscovered, StateSubmitted},
		{StateConfirmed, StateVerified},
		{StateSubmitted, StateVerified},
		// Backward moves
		{StateVerified, StateConfirmed},
		{StatePending, StateSubmitted},
		{StateConfirmed, StateDiscovered},
		// Resurfaced is terminal
		{StateResurfaced, StateConfirmed},
		{StateResurfaced, StateSubmitted},
		{StateResurfaced, StateDiscovered},
	}
	for _, edge := range rejected {
		if CanTransition(edge.from, edge.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", edge.from, edge.to)
		}
	}
}

func TestCanTransition_SelfTransitionsRejected(t *testing.T) {
	for _, s := range States() {
		if CanTransition(s, s) {
			t.Errorf("self-transition allowed for %s", s)
		}
	}
}

func TestParseState(t *testing.T) {
	for _, s := range States() {
		got, err := ParseState(string(s))
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseState("removed"); err == nil {
		t.Error("ParseState accepted an unknown state")
	}
	if _, err := ParseState(""); err == nil {
		t.Error("ParseState accepted an empty state")
	}
}
