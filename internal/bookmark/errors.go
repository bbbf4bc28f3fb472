package bookmark

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("bookmark not found")

// NotFoundError reports a key that is not present in the store.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// EmbeddedNulError reports an argument that cannot be passed to a process
// because it contains a NUL byte.
type EmbeddedNulError struct {
	Value string
	Index int
}

func (e *EmbeddedNulError) Error() string {
	return fmt.Sprintf("argument %d contains an embedded NUL byte", e.Index)
}

// InvalidUTF8Error reports bookmark text that cannot be stored unchanged.
type InvalidUTF8Error struct {
	Key   string
	Field string
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("bookmark %q: %s is not valid UTF-8", e.Key, e.Field)
}

// DecodeError reports a bookmarks document that exists but is not valid.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to deserialize %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
