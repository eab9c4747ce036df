package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/types"
)

// ListApplications returns every application, most recently updated first.
func (db *DB) ListApplications(ctx context.Context) ([]types.JobApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications ORDER BY updated_timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return collectApplications(rows)
}

// ListRecentApplications returns the limit most recently updated applications.
func (db *DB) ListRecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error) {
	if limit <= 0 {
		limit = types.RecentApplicationsLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications ORDER BY updated_timestamp DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent applications: %w", err)
	}
	return collectApplications(rows)
}

// ListApplicationsByDateRange returns applications whose application date
// lies in [start, end], newest application first.
func (db *DB) ListApplicationsByDateRange(ctx context.Context, start, end int64) ([]types.JobApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications
		 WHERE application_date BETWEEN $1 AND $2
		 ORDER BY application_date DESC, id DESC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by date range: %w", err)
	}
	return collectApplications(rows)
}

// ListApplicationsByStatus returns applications with the given status, most
// recently updated first.
func (db *DB) ListApplicationsByStatus(ctx context.Context, status types.ApplicationStatus) ([]types.JobApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE status = $1
		 ORDER BY updated_timestamp DESC, id DESC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by status: %w", err)
	}
	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]types.JobApplication, error) {
	defer rows.Close()

	apps := make([]types.JobApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// GetApplication returns the application with id, or nil if none exists.
func (db *DB) GetApplication(ctx context.Context, id int64) (*types.JobApplication, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// InsertApplication stores a new application and returns its id. app.ID is
// ignored.
func (db *DB) InsertApplication(ctx context.Context, app *types.JobApplication) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_applications (
		   company_name, job_title, application_date, status,
		   company_location, job_description, job_link, salary_min, salary_max,
		   job_type, remote_status, company_size, industry, notes, rating,
		   company_website, created_timestamp, updated_timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id`,
		applicationArgs(app)...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert application: %w", err)
	}
	return id, nil
}

// RestoreApplication re-inserts a deleted application under app.ID and moves
// the id sequence past it. An app without an id is inserted as new.
func (db *DB) RestoreApplication(ctx context.Context, app *types.JobApplication) (int64, error) {
	if app.ID == 0 {
		return db.InsertApplication(ctx, app)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin restore: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	args := append([]any{app.ID}, applicationArgs(app)...)
	if _, err := tx.Exec(ctx,
		`INSERT INTO job_applications (
		   id, company_name, job_title, application_date, status,
		   company_location, job_description, job_link, salary_min, salary_max,
		   job_type, remote_status, company_size, industry, notes, rating,
		   company_website, created_timestamp, updated_timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		args...,
	); err != nil {
		return 0, fmt.Errorf("failed to restore application %d: %w", app.ID, err)
	}
	if _, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('job_applications', 'id'),
		               GREATEST((SELECT MAX(id) FROM job_applications), 1))`,
	); err != nil {
		return 0, fmt.Errorf("failed to advance application id sequence: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit restore: %w", err)
	}
	return app.ID, nil
}

// UpdateApplication overwrites every column of the application with app.ID.
func (db *DB) UpdateApplication(ctx context.Context, app *types.JobApplication) error {
	args := append(applicationArgs(app), app.ID)
	result, err := db.pool.Exec(ctx,
		`UPDATE job_applications SET
		   company_name = $1, job_title = $2, application_date = $3, status = $4,
		   company_location = $5, job_description = $6, job_link = $7,
		   salary_min = $8, salary_max = $9, job_type = $10, remote_status = $11,
		   company_size = $12, industry = $13, notes = $14, rating = $15,
		   company_website = $16, created_timestamp = $17, updated_timestamp = $18
		 WHERE id = $19`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "application", ID: app.ID}
	}
	return nil
}

// UpdateApplicationStatus sets the status and updated timestamp of one
// application.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id int64, status types.ApplicationStatus, updated int64) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE job_applications SET status = $1, updated_timestamp = $2 WHERE id = $3`,
		string(status), updated, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "application", ID: id}
	}
	return nil
}

// DeleteApplication deletes one application. Its status history and
// communications are removed by cascade.
func (db *DB) DeleteApplication(ctx context.Context, id int64) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "application", ID: id}
	}
	return nil
}

// DeleteAllApplications removes every application and returns how many were
// deleted.
func (db *DB) DeleteAllApplications(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_applications`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete applications: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountApplications returns the number of stored applications.
func (db *DB) CountApplications(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}

// StatusCounts returns the number of applications per status. Statuses
// without applications are absent.
func (db *DB) StatusCounts(ctx context.Context) (map[types.ApplicationStatus]int, error) {
	rows, err := db.pool.Query(ctx, `SELECT status, COUNT(*) FROM job_applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ApplicationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[types.ParseApplicationStatus(status)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}
	return counts, nil
}
