package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/types"
)

// maxImportSize bounds the body of POST /import.
const maxImportSize = 32 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := backup.FileName(s.now())

	// Buffer so a failed export still gets a JSON error response.
	var buf bytes.Buffer
	if _, err := s.backups.ExportTo(r.Context(), &buf, "download:"+name); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	imported, err := s.backups.ImportFrom(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"imported": imported})
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := s.records.ListBackups(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if backups == nil {
		backups = []types.CloudBackup{}
	}
	s.jsonResponse(w, http.StatusOK, backups)
}

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	backupType := types.BackupTypeCSV
	if v := r.URL.Query().Get("type"); v != "" {
		backupType = types.BackupType(strings.ToUpper(v))
		if !backupType.IsValid() {
			s.errorResponse(w, http.StatusBadRequest, "Unknown backup type: "+v)
			return
		}
	}

	record, err := s.backups.CreateBackup(r.Context(), backupType)
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), map[string]any{
			"error":  err.Error(),
			"backup": record,
		})
		return
	}
	s.jsonResponse(w, http.StatusCreated, record)
}
