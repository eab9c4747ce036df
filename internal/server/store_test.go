package server

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jonathan/job-tracker/internal/types"
)

// memStore is an in-memory stand-in for *db.DB.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	apps    map[int64]types.JobApplication
	history []types.StatusHistory
	comms   []types.Communication
	backups []types.CloudBackup
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{apps: make(map[int64]types.JobApplication)}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) ListApplications(context.Context) ([]types.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.JobApplication, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListRecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error) {
	all, _ := m.ListApplications(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) GetApplication(_ context.Context, id int64) (*types.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memStore) InsertApplication(_ context.Context, app *types.JobApplication) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a := *app
	a.ID = m.nextID
	m.apps[a.ID] = a
	return a.ID, nil
}

func (m *memStore) RestoreApplication(ctx context.Context, app *types.JobApplication) (int64, error) {
	if app.ID == 0 {
		return m.InsertApplication(ctx, app)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.ID] = *app
	m.nextID = max(m.nextID, app.ID)
	return app.ID, nil
}

func (m *memStore) UpdateApplication(_ context.Context, app *types.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.ID] = *app
	return nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id int64, status types.ApplicationStatus, updated int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.apps[id]
	a.Status = status
	a.UpdatedTimestamp = updated
	m.apps[id] = a
	return nil
}

func (m *memStore) DeleteApplication(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apps, id)
	return nil
}

func (m *memStore) ListStatusHistory(_ context.Context, id int64) ([]types.StatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.StatusHistory
	for _, h := range m.history {
		if h.ApplicationID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) ListAllStatusHistory(context.Context) ([]types.StatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.StatusHistory(nil), m.history...), nil
}

func (m *memStore) InsertStatusHistory(_ context.Context, h *types.StatusHistory) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *h
	stored.ID = int64(len(m.history) + 1)
	m.history = append(m.history, stored)
	return stored.ID, nil
}

func (m *memStore) ListCommunications(_ context.Context, id int64) ([]types.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Communication
	for _, c := range m.comms {
		if c.ApplicationID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) InsertCommunication(_ context.Context, c *types.Communication) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *c
	stored.ID = int64(len(m.comms) + 1)
	m.comms = append(m.comms, stored)
	return stored.ID, nil
}

func (m *memStore) ListBackups(context.Context) ([]types.CloudBackup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.CloudBackup(nil), m.backups...), nil
}

func (m *memStore) InsertBackup(_ context.Context, b *types.CloudBackup) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *b
	stored.ID = int64(len(m.backups) + 1)
	m.backups = append(m.backups, stored)
	return stored.ID, nil
}

func (m *memStore) UpdateBackup(_ context.Context, b *types.CloudBackup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.backups {
		if m.backups[i].ID == b.ID {
			m.backups[i] = *b
			return nil
		}
	}
	return errors.New("backup not found")
}
