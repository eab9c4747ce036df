// Package undo keeps the most recently deleted application so it can be
// restored within a short window.
package undo

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Restorer re-inserts a deleted application under its original id and
// returns the id it was stored with.
type Restorer interface {
	RestoreApplication(ctx context.Context, app *types.JobApplication) (int64, error)
}

// Manager is a single-slot undo buffer. Recording a deletion replaces any
// earlier one. It is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	restorer  Restorer
	timeout   time.Duration
	now       func() time.Time
	app       *types.JobApplication
	deletedAt time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides the undo window.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a manager with the default undo window.
func NewManager(restorer Restorer, opts ...Option) *Manager {
	m := &Manager{
		restorer: restorer,
		timeout:  types.UndoTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RecordDeletion buffers app as the latest deletion.
func (m *Manager) RecordDeletion(app types.JobApplication) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.app = &app
	m.deletedAt = m.now()
}

// Undo re-inserts the buffered application when the window is still open
// and returns it as stored. An expired entry is dropped.
func (m *Manager) Undo(ctx context.Context) (*types.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.app == nil {
		return nil, ErrNothingToUndo
	}
	if !m.withinWindow() {
		m.clear()
		return nil, ErrUndoExpired
	}

	restored := *m.app
	id, err := m.restorer.RestoreApplication(ctx, &restored)
	if err != nil {
		return nil, &RestoreError{Company: restored.CompanyName, Cause: err}
	}
	restored.ID = id
	m.clear()
	return &restored, nil
}

// CanUndo reports whether Undo would currently attempt a restore.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.app != nil && m.withinWindow()
}

// Clear empties the slot.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

// Pending returns a copy of the buffered application and the remaining
// window, or nil when the slot is empty or expired.
func (m *Manager) Pending() (*types.JobApplication, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.app == nil || !m.withinWindow() {
		return nil, 0
	}
	app := *m.app
	return &app, m.timeout - m.now().Sub(m.deletedAt)
}

func (m *Manager) withinWindow() bool {
	return m.now().Sub(m.deletedAt) <= m.timeout
}

func (m *Manager) clear() {
	m.app = nil
	m.deletedAt = time.Time{}
}
