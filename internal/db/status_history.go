package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/types"
)

// ListStatusHistory returns the history of one application, oldest first.
func (db *DB) ListStatusHistory(ctx context.Context, applicationID int64) ([]types.StatusHistory, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+statusHistoryColumns+` FROM status_history
		 WHERE application_id = $1 ORDER BY status_date ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return collectStatusHistory(rows)
}

// ListAllStatusHistory returns every history record, grouped by application
// and oldest first within each.
func (db *DB) ListAllStatusHistory(ctx context.Context) ([]types.StatusHistory, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+statusHistoryColumns+` FROM status_history
		 ORDER BY application_id ASC, status_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return collectStatusHistory(rows)
}

func collectStatusHistory(rows pgx.Rows) ([]types.StatusHistory, error) {
	defer rows.Close()

	history := make([]types.StatusHistory, 0)
	for rows.Next() {
		h, err := scanStatusHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}
	return history, nil
}

// InsertStatusHistory appends a history record and returns its id.
func (db *DB) InsertStatusHistory(ctx context.Context, h *types.StatusHistory) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO status_history (application_id, status, status_date, notes, timestamp)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		h.ApplicationID, string(h.Status), h.StatusDate, h.Notes, h.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert status history: %w", err)
	}
	return id, nil
}

// AverageTransitionTime averages, across all applications, the gap between
// a from record and every strictly later to record of the same application.
// ok is false when no pair exists.
func (db *DB) AverageTransitionTime(ctx context.Context, from, to types.ApplicationStatus) (avg time.Duration, ok bool, err error) {
	var millis *float64
	err = db.pool.QueryRow(ctx,
		`SELECT AVG(sh2.status_date - sh1.status_date)::float8
		 FROM status_history sh1
		 JOIN status_history sh2
		   ON sh1.application_id = sh2.application_id
		  AND sh2.status_date > sh1.status_date
		 WHERE sh1.status = $1 AND sh2.status = $2`,
		string(from), string(to),
	).Scan(&millis)
	if err != nil {
		return 0, false, fmt.Errorf("failed to compute transition time: %w", err)
	}
	if millis == nil {
		return 0, false, nil
	}
	return time.Duration(int64(*millis)) * time.Millisecond, true, nil
}
