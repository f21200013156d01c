// Package storage provides event store backends for the audit chain.
//
// The SQLite backend is the production store: events live in an
// insert-only table guarded by BEFORE UPDATE / BEFORE DELETE triggers
// that abort any mutation at the engine level. That guard is defense in
// depth; the hash chain is what makes bypassing it detectable.
//
// The Memory backend mirrors the same interface for tests and carries
// no engine-level guard, which also makes it the natural place to
// exercise tamper-detection paths.
package storage
