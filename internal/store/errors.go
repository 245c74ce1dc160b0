package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an operation referencing a message id that is not in
// the collection.
var ErrNotFound = errors.New("email not found")

// PersistenceError wraps a backing-file read or write failure. After a failed
// save the in-memory collection remains authoritative; the caller decides
// whether to retry, skip, or abort.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
