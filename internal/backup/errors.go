package backup

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-tracker/internal/types"
)

// ErrNoValidApplications is returned by an import that read the whole source
// without finding a usable row.
var ErrNoValidApplications = errors.New("No valid applications found in CSV")

// ReadError reports that the import source could not be read.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Could not read file: %v", e.Cause)
	}
	return "Could not read file"
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// UnavailableError is returned for backup destinations that are not
// implemented.
type UnavailableError struct {
	Type types.BackupType
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s backup not available. Please use CSV export.", e.Type.DisplayName())
}

// SnapshotError reports a snapshot document that failed to decode or
// validate.
type SnapshotError struct {
	Message string
	Cause   error
}

func (e *SnapshotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid snapshot: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid snapshot: %s", e.Message)
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}
