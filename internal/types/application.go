package types

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// UndoTimeout is how long a deleted application can be restored.
const UndoTimeout = 5 * time.Second

// RecentApplicationsLimit is the default size of the recent applications list.
const RecentApplicationsLimit = 5

// JobApplication is a tracked job application.
// Timestamps are epoch milliseconds; ID 0 means the record is not saved yet.
type JobApplication struct {
	ID               int64             `json:"id"`
	CompanyName      string            `json:"company_name" validate:"required,notblank"`
	JobTitle         string            `json:"job_title" validate:"required,notblank"`
	ApplicationDate  int64             `json:"application_date"`
	Status           ApplicationStatus `json:"status" validate:"required,application_status"`
	CompanyLocation  *string           `json:"company_location,omitempty"`
	JobDescription   *string           `json:"job_description,omitempty"`
	JobLink          *string           `json:"job_link,omitempty"`
	SalaryRange      *SalaryRange      `json:"salary_range,omitempty"`
	JobType          *JobType          `json:"job_type,omitempty"`
	RemoteStatus     *RemoteStatus     `json:"remote_status,omitempty"`
	CompanySize      *CompanySize      `json:"company_size,omitempty"`
	Industry         *string           `json:"industry,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
	Rating           *int              `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	CompanyWebsite   *string           `json:"company_website,omitempty"`
	CreatedTimestamp int64             `json:"created_timestamp"`
	UpdatedTimestamp int64             `json:"updated_timestamp"`
}

// SalaryRange holds an optional lower and upper bound.
type SalaryRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// DisplayString renders the range the way list cards show it.
func (r *SalaryRange) DisplayString() string {
	if r == nil {
		return "Not specified"
	}
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("$%s - $%s", formatSalary(*r.Min), formatSalary(*r.Max))
	case r.Min != nil:
		return fmt.Sprintf("From $%s", formatSalary(*r.Min))
	case r.Max != nil:
		return fmt.Sprintf("Up to $%s", formatSalary(*r.Max))
	default:
		return "Not specified"
	}
}

func formatSalary(v int) string {
	if v >= 1000 {
		return fmt.Sprintf("%dk", v/1000)
	}
	return fmt.Sprintf("%d", v)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("application_status", func(fl validator.FieldLevel) bool {
			return ApplicationStatus(fl.Field().String()).IsValid()
		})
		_ = validate.RegisterValidation("communication_type", func(fl validator.FieldLevel) bool {
			return ParseCommunicationType(fl.Field().String()) != nil
		})
	})
	return validate
}

// Validate checks required fields and field-level invariants.
func (a *JobApplication) Validate() error {
	if err := getValidator().Struct(a); err != nil {
		return err
	}
	if a.UpdatedTimestamp < a.CreatedTimestamp {
		return fmt.Errorf("updated timestamp %d is before created timestamp %d", a.UpdatedTimestamp, a.CreatedTimestamp)
	}
	if a.SalaryRange != nil && a.SalaryRange.Min == nil && a.SalaryRange.Max == nil {
		return fmt.Errorf("salary range must have at least one bound")
	}
	return nil
}

// ApplicationTime returns the application date in loc.
func (a *JobApplication) ApplicationTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return FromMillis(a.ApplicationDate).In(loc)
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time.Time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// StringPtr returns a pointer to s, or nil when s is blank after trimming.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
