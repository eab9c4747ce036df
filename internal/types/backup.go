package types

// BackupType is the destination kind of a backup attempt.
type BackupType string

const (
	BackupTypeCSV          BackupType = "CSV"
	BackupTypeGoogleDrive  BackupType = "GOOGLE_DRIVE"
	BackupTypeGoogleSheets BackupType = "GOOGLE_SHEETS"
	BackupTypeNotion       BackupType = "NOTION"
)

var backupTypeDisplayNames = map[BackupType]string{
	BackupTypeGoogleDrive:  "Google Drive",
	BackupTypeGoogleSheets: "Google Sheets",
	BackupTypeNotion:       "Notion",
	BackupTypeCSV:          "CSV Export",
}

// DisplayName returns the human readable label.
func (t BackupType) DisplayName() string {
	if name, ok := backupTypeDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// IsValid reports whether t is one of the declared backup types.
func (t BackupType) IsValid() bool {
	_, ok := backupTypeDisplayNames[t]
	return ok
}

// ParseBackupType defaults to CSV for unknown names.
func ParseBackupType(name string) BackupType {
	t := BackupType(name)
	if _, ok := backupTypeDisplayNames[t]; ok {
		return t
	}
	return BackupTypeCSV
}

// BackupStatus is the lifecycle state of a backup record.
// PENDING moves exactly once to COMPLETED or FAILED.
type BackupStatus string

const (
	BackupStatusPending   BackupStatus = "PENDING"
	BackupStatusCompleted BackupStatus = "COMPLETED"
	BackupStatusFailed    BackupStatus = "FAILED"
)

// ParseBackupStatus defaults to PENDING for unknown names.
func ParseBackupStatus(name string) BackupStatus {
	switch s := BackupStatus(name); s {
	case BackupStatusPending, BackupStatusCompleted, BackupStatusFailed:
		return s
	}
	return BackupStatusPending
}

// CloudBackup describes one backup attempt.
type CloudBackup struct {
	ID              int64        `json:"id"`
	BackupType      BackupType   `json:"backup_type"`
	BackupTimestamp int64        `json:"backup_timestamp"`
	BackupStatus    BackupStatus `json:"backup_status"`
	BackupFileID    *string      `json:"backup_file_id,omitempty"`
	BackupLocation  *string      `json:"backup_location,omitempty"`
}
