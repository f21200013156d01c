// Package vault stores opt-out evidence artifacts encrypted at rest.
//
// Every artifact goes through the same pipeline: size ceiling check on
// the raw bytes, PII redaction, content digest, AES-256-GCM encryption
// under a key derived from the vault master key, and an atomic write
// into a per-finding directory under the vault root. An artifact index
// in SQLite maps artifact identifiers back to files and digests.
package vault
