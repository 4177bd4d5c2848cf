package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound classifies write operations against an id that does not exist.
// Read paths never return it: a read miss yields a nil entity and a nil
// error.
var ErrNotFound = errors.New("document not found")

// DuplicateKeyError reports a uniqueness violation, either detected by an
// entity repository's pre-write lookup or by a store-level unique index.
type DuplicateKeyError struct {
	Collection string
	Field      string
	Value      string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: duplicate key", e.Collection)
	}
	return fmt.Sprintf("%s: %s %q already exists", e.Collection, e.Field, e.Value)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}

// StorageError wraps a failure of the underlying document store with the
// collection and operation it occurred in. Storage failures are logged and
// propagated, never retried or swallowed by this layer.
type StorageError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Collection, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
