package vault

import (
	"errors"
	"fmt"
)

// ErrKeyMissing is returned when the vault is constructed without a
// master key.
var ErrKeyMissing = errors.New("vault master key is missing")

// TooLargeError is returned when an artifact exceeds the configured
// size ceiling. The check runs on the raw bytes before any
// cryptographic work.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("artifact size %d exceeds limit %d", e.Size, e.Limit)
}

// NewTooLargeError creates a new TooLargeError.
func NewTooLargeError(size, limit int64) *TooLargeError {
	return &TooLargeError{Size: size, Limit: limit}
}

// PathEscapeError is returned when a finding identifier or filename
// would resolve to a path outside the vault root.
type PathEscapeError struct {
	Component string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("path component escapes vault root: %q", e.Component)
}

// NewPathEscapeError creates a new PathEscapeError.
func NewPathEscapeError(component string) *PathEscapeError {
	return &PathEscapeError{Component: component}
}

// DecryptError is returned when an artifact fails authenticated
// decryption. It covers both header corruption and GCM tag failure.
type DecryptError struct {
	ArtifactID string
	Cause      error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("failed to decrypt artifact %s: %v", e.ArtifactID, e.Cause)
}

func (e *DecryptError) Unwrap() error {
	return e.Cause
}

// NewDecryptError creates a new DecryptError.
func NewDecryptError(artifactID string, cause error) *DecryptError {
	return &DecryptError{ArtifactID: artifactID, Cause: cause}
}

// NotFoundError is returned when no artifact exists for an identifier.
type NotFoundError struct {
	ArtifactID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.ArtifactID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(artifactID string) *NotFoundError {
	return &NotFoundError{ArtifactID: artifactID}
}
