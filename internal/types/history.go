package types

// StatusHistory is one append-only status transition record.
type StatusHistory struct {
	ID            int64             `json:"id"`
	ApplicationID int64             `json:"application_id"`
	Status        ApplicationStatus `json:"status"`
	StatusDate    int64             `json:"status_date"`
	Notes         *string           `json:"notes,omitempty"`
	Timestamp     int64             `json:"timestamp"`
}

// Communication is a recruiter contact attached to an application.
type Communication struct {
	ID                 int64              `json:"id"`
	ApplicationID      int64              `json:"application_id" validate:"required,gt=0"`
	RecruiterName      *string            `json:"recruiter_name,omitempty"`
	RecruiterEmail     *string            `json:"recruiter_email,omitempty" validate:"omitempty,email"`
	RecruiterPhone     *string            `json:"recruiter_phone,omitempty"`
	CommunicationType  *CommunicationType `json:"communication_type,omitempty" validate:"omitempty,communication_type"`
	CommunicationDate  *int64             `json:"communication_date,omitempty"`
	CommunicationNotes *string            `json:"communication_notes,omitempty"`
}

// Validate checks the communication's field-level rules.
func (c *Communication) Validate() error {
	return getValidator().Struct(c)
}
