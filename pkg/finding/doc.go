// Package finding tracks broker listings (findings) and drives their
// per-case state machine. It is the sole producer of audit chain
// entries: every accepted transition persists the new state and appends
// exactly one event, in the same database transaction, so state and
// history can never diverge. Rejected transitions have no side effects.
package finding
