// Package collection implements an in-process vector collection engine.
package collection

import (
	"errors"
	"fmt"
)

// Predefined errors for the taxonomy described by the engine's contract.
var (
	// ErrInvalidArgument indicates a malformed point id, unknown vector name,
	// dimensionality mismatch, name-set mismatch on upsert, unsupported
	// query-vector shape, unsupported selector shape, or an empty positive
	// list on recommend.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a point id referenced by recommend or an
	// explicit delete/selector lookup is unknown to the collection.
	ErrNotFound = errors.New("point not found")

	// ErrConfig indicates a malformed vectors configuration at construction.
	ErrConfig = errors.New("invalid collection config")

	// ErrPersistence indicates a failure propagated from the persistence
	// adapter. The write it accompanies has already been applied in memory.
	ErrPersistence = errors.New("persistence operation failed")
)

// CollectionError wraps an error with the name of the operation that
// produced it, in the same shape as the teacher's MemoryError: an
// operation name plus an underlying sentinel, unwrappable via errors.Is
// and errors.As.
type CollectionError struct {
	// Op is the name of the operation that failed (e.g. "Upsert", "Search").
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message: "vectorcol: <Op>: <Err>".
func (e *CollectionError) Error() string {
	return fmt.Sprintf("vectorcol: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CollectionError) Unwrap() error {
	return e.Err
}

// NewCollectionError wraps err with operation context. Returns nil if err
// is nil, so callers can write `return NewCollectionError("Op", err)`
// unconditionally after a fallible call.
func NewCollectionError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollectionError{Op: op, Err: err}
}
