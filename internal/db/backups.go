package db

import (
	"context"
	"fmt"

	"github.com/jonathan/job-tracker/internal/types"
)

// ListBackups returns every backup record, newest first.
func (db *DB) ListBackups(ctx context.Context) ([]types.CloudBackup, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+backupColumns+` FROM cloud_backups ORDER BY backup_timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	defer rows.Close()

	backups := make([]types.CloudBackup, 0)
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		backups = append(backups, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate backups: %w", err)
	}
	return backups, nil
}

// LastSuccessfulBackup returns the newest COMPLETED backup, or nil.
func (db *DB) LastSuccessfulBackup(ctx context.Context) (*types.CloudBackup, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+backupColumns+` FROM cloud_backups
		 WHERE backup_status = $1
		 ORDER BY backup_timestamp DESC, id DESC LIMIT 1`,
		string(types.BackupStatusCompleted),
	)
	b, err := scanBackup(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last backup: %w", err)
	}
	return b, nil
}

// InsertBackup stores a backup record and returns its id.
func (db *DB) InsertBackup(ctx context.Context, b *types.CloudBackup) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cloud_backups (backup_type, backup_timestamp, backup_status, backup_file_id, backup_location)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		string(b.BackupType), b.BackupTimestamp, string(b.BackupStatus), b.BackupFileID, b.BackupLocation,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert backup: %w", err)
	}
	return id, nil
}

// UpdateBackup overwrites the backup record with b.ID.
func (db *DB) UpdateBackup(ctx context.Context, b *types.CloudBackup) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE cloud_backups
		 SET backup_type = $1, backup_timestamp = $2, backup_status = $3,
		     backup_file_id = $4, backup_location = $5
		 WHERE id = $6`,
		string(b.BackupType), b.BackupTimestamp, string(b.BackupStatus), b.BackupFileID, b.BackupLocation, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update backup: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "backup", ID: b.ID}
	}
	return nil
}

// DeleteBackup deletes one backup record.
func (db *DB) DeleteBackup(ctx context.Context, id int64) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM cloud_backups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "backup", ID: id}
	}
	return nil
}
