package library

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyUpdating reports that a mutation was rejected because the
	// item already has one in flight. Callers retry later; nothing queues.
	ErrAlreadyUpdating = errors.New("item already updating")

	// ErrNotFound reports that no item with the given id is tracked.
	ErrNotFound = errors.New("item not found")

	// ErrPersistence tags failures to durably record a mutation. The
	// in-memory catalog is guaranteed untouched when it is returned.
	ErrPersistence = errors.New("persistence failure")
)

func wrapPersistence(operation, id string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrPersistence, operation, id, err)
}
