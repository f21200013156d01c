package storage

import "fmt"

// StoreError represents a failure in an event store backend.
type StoreError struct {
	Backend   string // "sqlite", "memory"
	Operation string // "open", "insert", "query", ...
	Cause     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("event store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{Backend: backend, Operation: operation, Cause: cause}
}
