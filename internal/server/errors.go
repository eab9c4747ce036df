package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/undo"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr     *ErrValidation
		validErr   *tracker.ValidationError
		notFound   *tracker.NotFoundError
		dbNotFound *db.NotFoundError
		readErr    *backup.ReadError
		snapErr    *backup.SnapshotError
		unavail    *backup.UnavailableError
		fetchErr   *fetch.Error
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &validErr), errors.As(err, &readErr), errors.As(err, &snapErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &dbNotFound), errors.Is(err, undo.ErrNothingToUndo):
		return http.StatusNotFound
	case errors.Is(err, undo.ErrUndoExpired):
		return http.StatusGone
	case errors.Is(err, backup.ErrNoValidApplications):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavail):
		return http.StatusNotImplemented
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
