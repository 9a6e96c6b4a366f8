// ABOUTME: Error taxonomy for the session engine: validation, not-found and storage.
// ABOUTME: All three unwrap to their cause so errors.Is and errors.As work.
package session

import (
	"errors"
	"fmt"
)

// ErrNoExercise is wrapped when a set has no exercise reference.
var ErrNoExercise = errors.New("set has no exercise")

// ValidationError reports rejected input. Nothing was mutated.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a set or exercise that is not part of the session.
type NotFoundError struct {
	Kind string
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found in session", e.Kind)
	if e.ID != "" {
		msg = fmt.Sprintf("%s %s not found in session", e.Kind, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// StorageError reports a failed persistence call. In-memory state already
// reflects the change; call Save to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
