package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/types"
)

// ListCommunications returns the communications of one application, most
// recent first.
func (db *DB) ListCommunications(ctx context.Context, applicationID int64) ([]types.Communication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+communicationColumns+` FROM communications
		 WHERE application_id = $1 ORDER BY communication_date DESC NULLS LAST, id DESC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	return collectCommunications(rows)
}

// ListAllCommunications returns every communication ordered by application.
func (db *DB) ListAllCommunications(ctx context.Context) ([]types.Communication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+communicationColumns+` FROM communications ORDER BY application_id ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	return collectCommunications(rows)
}

func collectCommunications(rows pgx.Rows) ([]types.Communication, error) {
	defer rows.Close()

	comms := make([]types.Communication, 0)
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication: %w", err)
		}
		comms = append(comms, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate communications: %w", err)
	}
	return comms, nil
}

// InsertCommunication stores a communication and returns its id.
func (db *DB) InsertCommunication(ctx context.Context, c *types.Communication) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO communications (application_id, recruiter_name, recruiter_email,
		   recruiter_phone, communication_type, communication_date, communication_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		c.ApplicationID, c.RecruiterName, c.RecruiterEmail, c.RecruiterPhone,
		enumString(c.CommunicationType), c.CommunicationDate, c.CommunicationNotes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert communication: %w", err)
	}
	return id, nil
}

// DeleteCommunication deletes one communication.
func (db *DB) DeleteCommunication(ctx context.Context, id int64) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM communications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete communication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "communication", ID: id}
	}
	return nil
}
