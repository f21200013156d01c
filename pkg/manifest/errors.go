package manifest

import "fmt"

// NotFoundError is returned when the manifest file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s", e.Path)
}

// TooLargeError is returned when the manifest file exceeds the size
// guard.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("manifest %s is %d bytes (limit %d)", e.Path, e.Size, e.Limit)
}

// InvalidError is returned when the manifest fails to parse or
// validate.
type InvalidError struct {
	Path   string
	Detail string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Detail)
}

func invalidf(path, format string, args ...interface{}) *InvalidError {
	return &InvalidError{Path: path, Detail: fmt.Sprintf(format, args...)}
}
