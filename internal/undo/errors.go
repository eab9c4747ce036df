package undo

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToUndo is returned when the slot is empty.
	ErrNothingToUndo = errors.New("No application to restore")
	// ErrUndoExpired is returned when the undo window has passed. The slot is
	// cleared as part of the failed attempt.
	ErrUndoExpired = errors.New("Undo timeout expired")
)

// RestoreError wraps a failure to re-insert the buffered application.
// The slot keeps the application so the caller may retry.
type RestoreError struct {
	Company string
	Cause   error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("failed to restore application %q: %v", e.Company, e.Cause)
}

func (e *RestoreError) Unwrap() error {
	return e.Cause
}
