// Package tracker implements the tracker use cases on top of storage: saving
// and deleting applications with undo, status changes with history, listing,
// dashboard statistics and analytics.
package tracker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/analytics"
	"github.com/jonathan/job-tracker/internal/events"
	"github.com/jonathan/job-tracker/internal/filtering"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/undo"
)

// Repository is the storage the service runs on. *db.DB implements it.
type Repository interface {
	ListApplications(ctx context.Context) ([]types.JobApplication, error)
	ListRecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error)
	GetApplication(ctx context.Context, id int64) (*types.JobApplication, error)
	InsertApplication(ctx context.Context, app *types.JobApplication) (int64, error)
	RestoreApplication(ctx context.Context, app *types.JobApplication) (int64, error)
	UpdateApplication(ctx context.Context, app *types.JobApplication) error
	UpdateApplicationStatus(ctx context.Context, id int64, status types.ApplicationStatus, updated int64) error
	DeleteApplication(ctx context.Context, id int64) error

	ListStatusHistory(ctx context.Context, applicationID int64) ([]types.StatusHistory, error)
	ListAllStatusHistory(ctx context.Context) ([]types.StatusHistory, error)
	InsertStatusHistory(ctx context.Context, h *types.StatusHistory) (int64, error)

	ListCommunications(ctx context.Context, applicationID int64) ([]types.Communication, error)
	InsertCommunication(ctx context.Context, c *types.Communication) (int64, error)
}

const (
	createdNote  = "Application created"
	restoredNote = "Application restored"
)

// Service runs the tracker use cases.
type Service struct {
	repo        Repository
	undo        *undo.Manager
	publisher   events.Publisher
	loc         *time.Location
	now         func() time.Time
	undoTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where lifecycle events go.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLocation sets the zone used for calendar grouping.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock overrides the time source, including the undo window clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithUndoTimeout overrides the undo window.
func WithUndoTimeout(d time.Duration) Option {
	return func(s *Service) { s.undoTimeout = d }
}

// NewService builds a service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		publisher:   events.NopPublisher{},
		loc:         time.Local,
		now:         time.Now,
		undoTimeout: types.UndoTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.undo = undo.NewManager(repo, undo.WithClock(s.now), undo.WithTimeout(s.undoTimeout))
	return s
}

// Location returns the zone used for calendar grouping.
func (s *Service) Location() *time.Location {
	return s.loc
}

func validate(app *types.JobApplication) error {
	app.CompanyName = strings.TrimSpace(app.CompanyName)
	app.JobTitle = strings.TrimSpace(app.JobTitle)
	if app.CompanyName == "" {
		return &ValidationError{Field: "company_name", Message: "Company name is required"}
	}
	if app.JobTitle == "" {
		return &ValidationError{Field: "job_title", Message: "Job title is required"}
	}
	if err := app.Validate(); err != nil {
		return &ValidationError{Message: "Invalid application", Cause: err}
	}
	return nil
}

// SaveApplication inserts app when its id is 0 and updates it otherwise.
// New applications get an initial status history record. An update that
// changes the status appends one as well.
func (s *Service) SaveApplication(ctx context.Context, app *types.JobApplication) (int64, error) {
	now := types.Millis(s.now())

	if app.ID == 0 {
		app.CreatedTimestamp = now
		app.UpdatedTimestamp = now
		if app.ApplicationDate == 0 {
			app.ApplicationDate = now
		}
		if app.Status == "" {
			app.Status = types.StatusApplied
		}
		if err := validate(app); err != nil {
			return 0, err
		}

		id, err := s.repo.InsertApplication(ctx, app)
		if err != nil {
			return 0, fmt.Errorf("failed to save application: %w", err)
		}
		app.ID = id
		s.appendHistory(ctx, id, app.Status, app.ApplicationDate, createdNote)
		events.Emit(ctx, s.publisher, events.New(events.ApplicationSaved, id, app))
		return id, nil
	}

	existing, err := s.repo.GetApplication(ctx, app.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load application: %w", err)
	}
	if existing == nil {
		return 0, &NotFoundError{ID: app.ID}
	}

	app.CreatedTimestamp = existing.CreatedTimestamp
	app.UpdatedTimestamp = max(now, existing.CreatedTimestamp)
	if err := validate(app); err != nil {
		return 0, err
	}
	if err := s.repo.UpdateApplication(ctx, app); err != nil {
		return 0, fmt.Errorf("failed to save application: %w", err)
	}
	if app.Status != existing.Status {
		s.appendHistory(ctx, app.ID, app.Status, now, "")
	}
	events.Emit(ctx, s.publisher, events.New(events.ApplicationSaved, app.ID, app))
	return app.ID, nil
}

// appendHistory records a transition. The application is already stored, so
// a failure here is logged rather than returned.
func (s *Service) appendHistory(ctx context.Context, id int64, status types.ApplicationStatus, statusDate int64, notes string) {
	h := &types.StatusHistory{
		ApplicationID: id,
		Status:        status,
		StatusDate:    statusDate,
		Notes:         types.StringPtr(notes),
		Timestamp:     types.Millis(s.now()),
	}
	if _, err := s.repo.InsertStatusHistory(ctx, h); err != nil {
		log.Printf("[tracker] failed to record %s for application %d: %v", status, id, err)
	}
}

// GetApplication returns one application or a *NotFoundError.
func (s *Service) GetApplication(ctx context.Context, id int64) (*types.JobApplication, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, &NotFoundError{ID: id}
	}
	return app, nil
}

// UpdateStatus moves an application to status and appends a history record
// dated statusDate. A zero statusDate means now.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status types.ApplicationStatus, statusDate int64, notes string) error {
	if !status.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("Unknown status %q", status)}
	}
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	now := types.Millis(s.now())
	if statusDate == 0 {
		statusDate = now
	}
	if err := s.repo.UpdateApplicationStatus(ctx, id, status, max(now, app.CreatedTimestamp)); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	s.appendHistory(ctx, id, status, statusDate, notes)

	events.Emit(ctx, s.publisher, events.New(events.StatusChanged, id, map[string]types.ApplicationStatus{
		"from": app.Status,
		"to":   status,
	}))
	return nil
}

// DeleteApplication removes an application and buffers it for Undo.
func (s *Service) DeleteApplication(ctx context.Context, id int64) (*types.JobApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteApplication(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete application: %w", err)
	}
	s.undo.RecordDeletion(*app)
	events.Emit(ctx, s.publisher, events.New(events.ApplicationDeleted, id, nil))
	return app, nil
}

// Undo restores the most recently deleted application under its original id
// and returns that id. The deleted history is not recovered; a single record
// marks the restore.
func (s *Service) Undo(ctx context.Context) (int64, error) {
	restored, err := s.undo.Undo(ctx)
	if err != nil {
		return 0, err
	}
	s.appendHistory(ctx, restored.ID, restored.Status, types.Millis(s.now()), restoredNote)
	events.Emit(ctx, s.publisher, events.New(events.ApplicationRestored, restored.ID, nil))
	return restored.ID, nil
}

// CanUndo reports whether a deletion can still be undone.
func (s *Service) CanUndo() bool {
	return s.undo.CanUndo()
}

// PendingUndo returns the restorable application and the remaining window.
func (s *Service) PendingUndo() (*types.JobApplication, time.Duration) {
	return s.undo.Pending()
}

// ClearUndo drops the buffered deletion.
func (s *Service) ClearUndo() {
	s.undo.Clear()
}

// ListApplications returns the stored applications filtered, searched and
// sorted by q.
func (s *Service) ListApplications(ctx context.Context, q filtering.Query) ([]types.JobApplication, error) {
	apps, err := s.repo.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return filtering.Apply(apps, q), nil
}

// RecentApplications returns the most recently updated applications. A
// non-positive limit uses types.RecentApplicationsLimit.
func (s *Service) RecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error) {
	if limit <= 0 {
		limit = types.RecentApplicationsLimit
	}
	apps, err := s.repo.ListRecentApplications(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent applications: %w", err)
	}
	return apps, nil
}

// Dashboard computes the dashboard counters over every application.
func (s *Service) Dashboard(ctx context.Context) (types.DashboardStatistics, error) {
	apps, err := s.repo.ListApplications(ctx)
	if err != nil {
		return types.DashboardStatistics{}, fmt.Errorf("failed to load applications: %w", err)
	}
	return analytics.ComputeDashboardStatistics(apps), nil
}

// Analytics computes the analytics view, restricted to dateRange when set.
func (s *Service) Analytics(ctx context.Context, dateRange *types.DateRange) (types.Analytics, error) {
	var (
		apps    []types.JobApplication
		history []types.StatusHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.repo.ListApplications(gctx)
		if err != nil {
			return fmt.Errorf("failed to load applications: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.repo.ListAllStatusHistory(gctx)
		if err != nil {
			return fmt.Errorf("failed to load status history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.Analytics{}, err
	}
	return analytics.ComputeAnalytics(apps, history, dateRange, s.loc), nil
}

// StatusHistory returns an application's transitions, oldest first.
func (s *Service) StatusHistory(ctx context.Context, id int64) ([]types.StatusHistory, error) {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.repo.ListStatusHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return history, nil
}

// Communications returns the recruiter contacts of an application.
func (s *Service) Communications(ctx context.Context, id int64) ([]types.Communication, error) {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return nil, err
	}
	comms, err := s.repo.ListCommunications(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load communications: %w", err)
	}
	return comms, nil
}

// AddCommunication attaches a recruiter contact to an existing application.
func (s *Service) AddCommunication(ctx context.Context, c *types.Communication) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, &ValidationError{Message: "Invalid communication", Cause: err}
	}
	if _, err := s.GetApplication(ctx, c.ApplicationID); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertCommunication(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("failed to save communication: %w", err)
	}
	c.ID = id
	return id, nil
}
