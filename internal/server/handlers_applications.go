package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/filtering"
	"github.com/jonathan/job-tracker/internal/types"
)

// ---------------------------------------------------------------------
// Application Handlers
// ---------------------------------------------------------------------

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: "id", Message: "Invalid application ID"}
	}
	return id, nil
}

// parseDateParam accepts epoch milliseconds or a YYYY-MM-DD day in loc. A
// day used as an end bound covers the whole day.
func parseDateParam(field, value string, loc *time.Location, endOfDay bool) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &ms, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "Invalid date for " + field + ": " + value}
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	ms := types.Millis(day)
	return &ms, nil
}

// parseListQuery builds a filtering query from the list query string.
func parseListQuery(values url.Values, loc *time.Location) (filtering.Query, error) {
	var q filtering.Query

	if v := values.Get("status"); v != "" {
		status := types.ApplicationStatus(strings.ToUpper(v))
		if !status.IsValid() {
			return q, &ErrValidation{Field: "status", Message: "Unknown status: " + v}
		}
		q.Filter.Status = &status
	}
	if v := values.Get("job_type"); v != "" {
		jt := types.ParseJobType(strings.ToUpper(v))
		if jt == nil {
			return q, &ErrValidation{Field: "job_type", Message: "Unknown job type: " + v}
		}
		q.Filter.JobType = jt
	}
	if v := values.Get("remote_status"); v != "" {
		rs := types.ParseRemoteStatus(strings.ToUpper(v))
		if rs == nil {
			return q, &ErrValidation{Field: "remote_status", Message: "Unknown remote status: " + v}
		}
		q.Filter.RemoteStatus = rs
	}
	q.Filter.Company = types.StringPtr(values.Get("company"))

	var err error
	if q.Filter.StartDate, err = parseDateParam("start", values.Get("start"), loc, false); err != nil {
		return q, err
	}
	if q.Filter.EndDate, err = parseDateParam("end", values.Get("end"), loc, true); err != nil {
		return q, err
	}

	q.Search = values.Get("q")
	q.Sort = types.SortNewest
	if v := values.Get("sort"); v != "" {
		if q.Sort, err = types.ParseSortOption(v); err != nil {
			return q, &ErrValidation{Field: "sort", Message: err.Error()}
		}
	}
	return q, nil
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query(), s.tracker.Location())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	apps, err := s.tracker.ListApplications(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

func (s *Server) decodeApplication(r *http.Request) (*types.JobApplication, error) {
	var app types.JobApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		return nil, &ErrValidation{Message: "Invalid request body"}
	}
	return &app, nil
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.decodeApplication(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app.ID = 0

	id, err := s.tracker.SaveApplication(r.Context(), app)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.tracker.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.decodeApplication(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app.ID = id

	if _, err := s.tracker.SaveApplication(r.Context(), app); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.tracker.DeleteApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, remaining := s.tracker.PendingUndo()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted":           app,
		"undo_remaining_ms": remaining.Milliseconds(),
	})
}

// UpdateStatusRequest is the body of POST /applications/{id}/status.
type UpdateStatusRequest struct {
	Status     types.ApplicationStatus `json:"status"`
	StatusDate int64                   `json:"status_date,omitempty"`
	Notes      string                  `json:"notes,omitempty"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.tracker.UpdateStatus(r.Context(), id, req.Status, req.StatusDate, req.Notes); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

func (s *Server) handleStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	history, err := s.tracker.StatusHistory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if history == nil {
		history = []types.StatusHistory{}
	}
	s.jsonResponse(w, http.StatusOK, history)
}

func (s *Server) handleListCommunications(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	comms, err := s.tracker.Communications(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if comms == nil {
		comms = []types.Communication{}
	}
	s.jsonResponse(w, http.StatusOK, comms)
}

func (s *Server) handleAddCommunication(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var c types.Communication
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c.ID = 0
	c.ApplicationID = id

	commID, err := s.tracker.AddCommunication(r.Context(), &c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]int64{"id": commID})
}

// ---------------------------------------------------------------------
// Undo Handlers
// ---------------------------------------------------------------------

func (s *Server) handleUndoStatus(w http.ResponseWriter, _ *http.Request) {
	app, remaining := s.tracker.PendingUndo()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"can_undo":     app != nil,
		"application":  app,
		"remaining_ms": remaining.Milliseconds(),
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, err := s.tracker.Undo(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"id": id})
}

// DraftRequest is the body of POST /applications/draft.
type DraftRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleDraftApplication(w http.ResponseWriter, r *http.Request) {
	if s.drafter == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Drafting from job links is not enabled")
		return
	}

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "Invalid request body"})
		return
	}
	if _, err := fetch.ValidateURL(req.URL); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "url", Message: "A valid http or https job link is required"})
		return
	}

	draft, err := s.drafter.Draft(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, draft)
}
