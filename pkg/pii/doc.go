// Package pii is the inner trust boundary for free-text fields. Every
// note, label, or export field passes through Sanitize before it is
// hashed, persisted, or logged, so that clear-text PII never reaches
// SQLite, the vault, or the audit chain.
//
// Detection is regex-based (emails, phone numbers, SSNs, credit cards)
// and best-effort: it catches common accidental PII, it is not a DLP
// engine. Identifiers that must remain correlatable are tokenized with
// a keyed HMAC instead of redacted, so the same input always maps to
// the same token without being reversible.
package pii
