package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/jonathan/job-tracker/internal/types"
)

type memStore struct {
	mu        sync.Mutex
	apps      []types.JobApplication
	history   []types.StatusHistory
	comms     []types.Communication
	backups   []types.CloudBackup
	nextID    int64
	listErr   error
	insertErr func(app *types.JobApplication) error
	backupErr error
	updateErr error
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) ListApplications(context.Context) ([]types.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]types.JobApplication, len(s.apps))
	copy(out, s.apps)
	return out, nil
}

func (s *memStore) InsertApplication(_ context.Context, app *types.JobApplication) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		if err := s.insertErr(app); err != nil {
			return 0, err
		}
	}
	stored := *app
	stored.ID = s.id()
	s.apps = append(s.apps, stored)
	return stored.ID, nil
}

func (s *memStore) ListAllStatusHistory(context.Context) ([]types.StatusHistory, error) {
	return s.history, nil
}

func (s *memStore) ListAllCommunications(context.Context) ([]types.Communication, error) {
	return s.comms, nil
}

func (s *memStore) InsertStatusHistory(_ context.Context, h *types.StatusHistory) (int64, error) {
	stored := *h
	stored.ID = s.id()
	s.history = append(s.history, stored)
	return stored.ID, nil
}

func (s *memStore) InsertCommunication(_ context.Context, c *types.Communication) (int64, error) {
	stored := *c
	stored.ID = s.id()
	s.comms = append(s.comms, stored)
	return stored.ID, nil
}

func (s *memStore) InsertBackup(_ context.Context, b *types.CloudBackup) (int64, error) {
	if s.backupErr != nil {
		return 0, s.backupErr
	}
	stored := *b
	stored.ID = s.id()
	s.backups = append(s.backups, stored)
	return stored.ID, nil
}

func (s *memStore) UpdateBackup(_ context.Context, b *types.CloudBackup) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.backups {
		if s.backups[i].ID == b.ID {
			s.backups[i] = *b
			return nil
		}
	}
	return errors.New("backup not found")
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

type memDest struct {
	files map[string]*bytes.Buffer
	err   error
}

func (d *memDest) Create(_ context.Context, name string) (io.WriteCloser, string, error) {
	if d.err != nil {
		return nil, "", d.err
	}
	if d.files == nil {
		d.files = make(map[string]*bytes.Buffer)
	}
	buf := &bytes.Buffer{}
	d.files[name] = buf
	return nopCloser{buf}, "mem://" + name, nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
