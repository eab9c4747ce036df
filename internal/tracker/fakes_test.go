package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	apps    map[int64]types.JobApplication
	history []types.StatusHistory
	comms   []types.Communication

	listErr    error
	historyErr error
}

func newMemRepo() *memRepo {
	return &memRepo{apps: make(map[int64]types.JobApplication)}
}

func (r *memRepo) ListApplications(context.Context) ([]types.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]types.JobApplication, 0, len(r.apps))
	for _, a := range r.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedTimestamp > out[j].UpdatedTimestamp })
	return out, nil
}

func (r *memRepo) ListRecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error) {
	all, err := r.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memRepo) GetApplication(_ context.Context, id int64) (*types.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memRepo) InsertApplication(_ context.Context, app *types.JobApplication) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *app
	stored.ID = r.nextID
	r.apps[stored.ID] = stored
	return stored.ID, nil
}

func (r *memRepo) RestoreApplication(ctx context.Context, app *types.JobApplication) (int64, error) {
	if app.ID == 0 {
		return r.InsertApplication(ctx, app)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; ok {
		return 0, errors.New("duplicate id")
	}
	r.apps[app.ID] = *app
	r.nextID = max(r.nextID, app.ID)
	return app.ID, nil
}

func (r *memRepo) UpdateApplication(_ context.Context, app *types.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return errors.New("not found")
	}
	r.apps[app.ID] = *app
	return nil
}

func (r *memRepo) UpdateApplicationStatus(_ context.Context, id int64, status types.ApplicationStatus, updated int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return errors.New("not found")
	}
	a.Status = status
	a.UpdatedTimestamp = updated
	r.apps[id] = a
	return nil
}

func (r *memRepo) DeleteApplication(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, id)
	kept := r.history[:0]
	for _, h := range r.history {
		if h.ApplicationID != id {
			kept = append(kept, h)
		}
	}
	r.history = kept
	return nil
}

func (r *memRepo) ListStatusHistory(_ context.Context, id int64) ([]types.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.StatusHistory
	for _, h := range r.history {
		if h.ApplicationID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memRepo) ListAllStatusHistory(context.Context) ([]types.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.historyErr != nil {
		return nil, r.historyErr
	}
	return append([]types.StatusHistory(nil), r.history...), nil
}

func (r *memRepo) InsertStatusHistory(_ context.Context, h *types.StatusHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *h
	stored.ID = int64(len(r.history) + 1)
	r.history = append(r.history, stored)
	return stored.ID, nil
}

func (r *memRepo) ListCommunications(_ context.Context, id int64) ([]types.Communication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.Communication
	for _, c := range r.comms {
		if c.ApplicationID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) InsertCommunication(_ context.Context, c *types.Communication) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	stored.ID = int64(len(r.comms) + 1)
	r.comms = append(r.comms, stored)
	return stored.ID, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
