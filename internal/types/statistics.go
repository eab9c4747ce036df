package types

import (
	"fmt"
	"strings"
	"time"
)

// FilterState holds the optional list filters. A nil field matches everything.
type FilterState struct {
	Status       *ApplicationStatus `json:"status,omitempty"`
	StartDate    *int64             `json:"start_date,omitempty"`
	EndDate      *int64             `json:"end_date,omitempty"`
	Company      *string            `json:"company,omitempty"`
	JobType      *JobType           `json:"job_type,omitempty"`
	RemoteStatus *RemoteStatus      `json:"remote_status,omitempty"`
}

// HasDateRange reports whether both ends of the date range are set.
func (f FilterState) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// HasCompany reports whether a non-blank company filter is set.
func (f FilterState) HasCompany() bool {
	return f.Company != nil && strings.TrimSpace(*f.Company) != ""
}

// IsEmpty reports whether no criterion is active.
func (f FilterState) IsEmpty() bool {
	return f.Status == nil && !f.HasDateRange() && !f.HasCompany() && f.JobType == nil && f.RemoteStatus == nil
}

// SortOption selects the list ordering.
type SortOption string

const (
	SortNewest  SortOption = "NEWEST"
	SortOldest  SortOption = "OLDEST"
	SortCompany SortOption = "COMPANY"
	SortStatus  SortOption = "STATUS"
)

var sortDisplayNames = map[SortOption]string{
	SortNewest:  "Newest First",
	SortOldest:  "Oldest First",
	SortCompany: "Company Name",
	SortStatus:  "Status",
}

// DisplayName returns the human readable label.
func (o SortOption) DisplayName() string {
	if name, ok := sortDisplayNames[o]; ok {
		return name
	}
	return string(o)
}

// ParseSortOption accepts the option name in any case.
func ParseSortOption(name string) (SortOption, error) {
	o := SortOption(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := sortDisplayNames[o]; !ok {
		return "", fmt.Errorf("unknown sort option %q", name)
	}
	return o, nil
}

// DashboardStatistics is derived on every query.
type DashboardStatistics struct {
	TotalApplications   int                       `json:"total_applications"`
	ResponsesReceived   int                       `json:"responses_received"`
	InterviewsScheduled int                       `json:"interviews_scheduled"`
	OffersReceived      int                       `json:"offers_received"`
	Rejections          int                       `json:"rejections"`
	StatusDistribution  map[ApplicationStatus]int `json:"status_distribution"`
}

// Analytics is the detailed insight view. Rates are unrounded percentages.
type Analytics struct {
	TotalApplications     int                       `json:"total_applications"`
	ResponseRate          float64                   `json:"response_rate"`
	InterviewRate         float64                   `json:"interview_rate"`
	SuccessRate           float64                   `json:"success_rate"`
	AverageTimeToResponse float64                   `json:"average_time_to_response_days"`
	StatusDistribution    map[ApplicationStatus]int `json:"status_distribution"`
	ApplicationsOverTime  []MonthlyCount            `json:"applications_over_time"`
	StatusTransitionTimes map[string]float64        `json:"status_transition_times"`
	CompanyResponseRates  []CompanyResponseRate     `json:"company_response_rates"`
}

// MonthlyCount is one point of the applications-over-time series.
// MonthNumber is 0-based.
type MonthlyCount struct {
	Month       string `json:"month"`
	Year        int    `json:"year"`
	MonthNumber int    `json:"month_number"`
	Count       int    `json:"count"`
}

// CompanyResponseRate is one row of the company ranking.
type CompanyResponseRate struct {
	CompanyName       string  `json:"company_name"`
	TotalApplications int     `json:"total_applications"`
	Responses         int     `json:"responses"`
	ResponseRate      float64 `json:"response_rate"`
}

// DateRange is an inclusive range of epoch milliseconds.
type DateRange struct {
	StartDate int64 `json:"start_date"`
	EndDate   int64 `json:"end_date"`
}

// Contains reports whether ms lies within the range, ends included.
func (r DateRange) Contains(ms int64) bool {
	return r.StartDate <= ms && ms <= r.EndDate
}

const day = 24 * time.Hour

// LastMonth covers the 30 days up to now.
func LastMonth(now time.Time) DateRange {
	return DateRange{StartDate: Millis(now.Add(-30 * day)), EndDate: Millis(now)}
}

// LastQuarter covers the 90 days up to now.
func LastQuarter(now time.Time) DateRange {
	return DateRange{StartDate: Millis(now.Add(-90 * day)), EndDate: Millis(now)}
}

// LastYear covers the 365 days up to now.
func LastYear(now time.Time) DateRange {
	return DateRange{StartDate: Millis(now.Add(-365 * day)), EndDate: Millis(now)}
}

// ParseRangeOption maps "month", "quarter", "year" and "all" to a range.
// "all" and "" return nil.
func ParseRangeOption(option string, now time.Time) (*DateRange, error) {
	var r DateRange
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "", "all", "all_time":
		return nil, nil
	case "month", "last_month":
		r = LastMonth(now)
	case "quarter", "last_quarter":
		r = LastQuarter(now)
	case "year", "last_year":
		r = LastYear(now)
	default:
		return nil, fmt.Errorf("unknown date range %q", option)
	}
	return &r, nil
}
