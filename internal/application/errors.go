package application

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an identifier was supplied but no record
	// of that kind exists. The legacy controllers merged onto a missing
	// record silently; that ambiguity is resolved into a clean error here.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownKind is returned for a resource kind outside the schema set.
	ErrUnknownKind = errors.New("unknown resource kind")

	// ErrBatchTooLarge is returned when an upload batch exceeds the limit.
	ErrBatchTooLarge = errors.New("too many files in upload batch")
)

// ValidationError carries one message per failed rule. The request is not
// persisted when validation fails.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError wraps a store-level failure (connectivity, constraint
// violation). It is not retried automatically.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "could not save record: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
