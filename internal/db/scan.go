package db

import (
	"github.com/jonathan/job-tracker/internal/types"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const applicationColumns = `id, company_name, job_title, application_date, status,
	company_location, job_description, job_link, salary_min, salary_max,
	job_type, remote_status, company_size, industry, notes, rating,
	company_website, created_timestamp, updated_timestamp`

func scanApplication(row rowScanner) (*types.JobApplication, error) {
	var (
		app                                types.JobApplication
		status                             string
		salaryMin, salaryMax, rating       *int
		jobType, remoteStatus, companySize *string
	)
	err := row.Scan(
		&app.ID, &app.CompanyName, &app.JobTitle, &app.ApplicationDate, &status,
		&app.CompanyLocation, &app.JobDescription, &app.JobLink, &salaryMin, &salaryMax,
		&jobType, &remoteStatus, &companySize, &app.Industry, &app.Notes, &rating,
		&app.CompanyWebsite, &app.CreatedTimestamp, &app.UpdatedTimestamp,
	)
	if err != nil {
		return nil, err
	}

	app.Status = types.ParseApplicationStatus(status)
	if salaryMin != nil || salaryMax != nil {
		app.SalaryRange = &types.SalaryRange{Min: salaryMin, Max: salaryMax}
	}
	if jobType != nil {
		app.JobType = types.ParseJobType(*jobType)
	}
	if remoteStatus != nil {
		app.RemoteStatus = types.ParseRemoteStatus(*remoteStatus)
	}
	if companySize != nil {
		app.CompanySize = types.ParseCompanySize(*companySize)
	}
	app.Rating = rating
	return &app, nil
}

// applicationArgs returns the column values for company_name through
// updated_timestamp, in applicationColumns order without the id.
func applicationArgs(app *types.JobApplication) []any {
	var salaryMin, salaryMax *int
	if app.SalaryRange != nil {
		salaryMin, salaryMax = app.SalaryRange.Min, app.SalaryRange.Max
	}
	return []any{
		app.CompanyName, app.JobTitle, app.ApplicationDate, string(app.Status),
		app.CompanyLocation, app.JobDescription, app.JobLink, salaryMin, salaryMax,
		enumString(app.JobType), enumString(app.RemoteStatus), enumString(app.CompanySize),
		app.Industry, app.Notes, app.Rating, app.CompanyWebsite,
		app.CreatedTimestamp, app.UpdatedTimestamp,
	}
}

func enumString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

const statusHistoryColumns = `id, application_id, status, status_date, notes, timestamp`

func scanStatusHistory(row rowScanner) (*types.StatusHistory, error) {
	var (
		h      types.StatusHistory
		status string
	)
	if err := row.Scan(&h.ID, &h.ApplicationID, &status, &h.StatusDate, &h.Notes, &h.Timestamp); err != nil {
		return nil, err
	}
	h.Status = types.ParseApplicationStatus(status)
	return &h, nil
}

const communicationColumns = `id, application_id, recruiter_name, recruiter_email,
	recruiter_phone, communication_type, communication_date, communication_notes`

func scanCommunication(row rowScanner) (*types.Communication, error) {
	var (
		c        types.Communication
		commType *string
	)
	err := row.Scan(&c.ID, &c.ApplicationID, &c.RecruiterName, &c.RecruiterEmail,
		&c.RecruiterPhone, &commType, &c.CommunicationDate, &c.CommunicationNotes)
	if err != nil {
		return nil, err
	}
	if commType != nil {
		c.CommunicationType = types.ParseCommunicationType(*commType)
	}
	return &c, nil
}

const backupColumns = `id, backup_type, backup_timestamp, backup_status, backup_file_id, backup_location`

func scanBackup(row rowScanner) (*types.CloudBackup, error) {
	var (
		b                  types.CloudBackup
		backupType, status string
	)
	if err := row.Scan(&b.ID, &backupType, &b.BackupTimestamp, &status, &b.BackupFileID, &b.BackupLocation); err != nil {
		return nil, err
	}
	b.BackupType = types.ParseBackupType(backupType)
	b.BackupStatus = types.ParseBackupStatus(status)
	return &b, nil
}
