package store

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched (via errors.Is) by every *OutOfRangeError.
var ErrOutOfRange = errors.New("index out of range")

// ErrUnread is wrapped by the PersistenceError of a write skipped because the
// stored list failed to load.
var ErrUnread = errors.New("stored todos could not be read")

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("todo not found: %d", e.ID)
}

type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// PersistenceError wraps a blob store failure. It is logged, never fatal.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
