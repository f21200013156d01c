// Package audit implements the append-only, hash-chained event log that
// makes retroactive edits to opt-out history detectable.
//
// Every accepted finding transition produces exactly one Event. Events
// are canonically serialized (RFC 8785 JSON), hashed with SHA-256, and
// linked to their predecessor through prev_hash, so editing, reordering,
// or deleting any row breaks recomputation from that point forward. The
// sanitized note is part of the hashed material: changing only the free
// text of an event is as detectable as changing its structured fields.
//
// Ordering scope is global: one gap-free sequence across all findings,
// with the empty string as the genesis prev_hash.
//
// Verification is a pure recomputation walk and never mutates storage.
// Export produces an Envelope of ordered entries plus the verification
// verdict, optionally signed with HMAC-SHA256 under a locally held key.
// An export of a broken chain still succeeds; the verdict is the point.
package audit
