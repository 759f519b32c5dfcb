package main

import (
	"errors"
	"fmt"
)

// ErrNotFound marks reads whose referent does not exist. Repositories wrap it
// with the entity and id, so callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationFailure rejects a checkout submission before any write happens.
// Field is empty for failures that are not tied to a single form field
// (expiry date, cart-level checks).
type ValidationFailure struct {
	Field   string
	Message string
}

func (e *ValidationFailure) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError is a failed storage operation, including a failed rollback.
// Fatal for the current call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
