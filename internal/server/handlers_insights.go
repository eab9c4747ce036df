package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/job-tracker/internal/types"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	apps, err := s.tracker.RecentApplications(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []types.JobApplication{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	dateRange, err := types.ParseRangeOption(r.URL.Query().Get("range"), s.now())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.tracker.Analytics(r.Context(), dateRange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
