// Package types provides the domain model shared by the job tracker packages.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ApplicationStatus is the lifecycle stage of a job application.
// Declaration order matters: it is the STATUS sort key.
type ApplicationStatus string

const (
	StatusApplied           ApplicationStatus = "APPLIED"
	StatusEmail             ApplicationStatus = "EMAIL"
	StatusPhone             ApplicationStatus = "PHONE"
	StatusInterview         ApplicationStatus = "INTERVIEW"
	StatusOffer             ApplicationStatus = "OFFER"
	StatusRejectedByCompany ApplicationStatus = "REJECTED_BY_COMPANY"
	StatusRejectedByMe      ApplicationStatus = "REJECTED_BY_ME"
	StatusGhosted           ApplicationStatus = "GHOSTED"
)

var statusOrder = []ApplicationStatus{
	StatusApplied,
	StatusEmail,
	StatusPhone,
	StatusInterview,
	StatusOffer,
	StatusRejectedByCompany,
	StatusRejectedByMe,
	StatusGhosted,
}

var statusDisplayNames = map[ApplicationStatus]string{
	StatusApplied:           "Applied",
	StatusEmail:             "Email Response",
	StatusPhone:             "Phone Call",
	StatusInterview:         "Interview",
	StatusOffer:             "Offer",
	StatusRejectedByCompany: "Rejected by Company",
	StatusRejectedByMe:      "Rejected by Me",
	StatusGhosted:           "Ghosted",
}

// AllStatuses returns every status in declaration order.
func AllStatuses() []ApplicationStatus {
	out := make([]ApplicationStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Ordinal returns the declaration index of the status, or len(AllStatuses())
// for an unknown value so unknowns sort last.
func (s ApplicationStatus) Ordinal() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return len(statusOrder)
}

// DisplayName returns the human readable label.
func (s ApplicationStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// IsValid reports whether s is one of the declared statuses.
func (s ApplicationStatus) IsValid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

// ParseApplicationStatus maps an enum name back to a status.
// Unknown names fall back to APPLIED.
func ParseApplicationStatus(name string) ApplicationStatus {
	st := ApplicationStatus(name)
	if st.IsValid() {
		return st
	}
	return StatusApplied
}

// JobType is the employment arrangement of a position.
type JobType string

const (
	JobTypeFullTime  JobType = "FULL_TIME"
	JobTypePartTime  JobType = "PART_TIME"
	JobTypeContract  JobType = "CONTRACT"
	JobTypeFreelance JobType = "FREELANCE"
)

var jobTypeDisplayNames = map[JobType]string{
	JobTypeFullTime:  "Full-time",
	JobTypePartTime:  "Part-time",
	JobTypeContract:  "Contract",
	JobTypeFreelance: "Freelance",
}

// DisplayName returns the human readable label.
func (t JobType) DisplayName() string {
	if name, ok := jobTypeDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// ParseJobType returns nil for an unknown name.
func ParseJobType(name string) *JobType {
	t := JobType(name)
	if _, ok := jobTypeDisplayNames[t]; !ok {
		return nil
	}
	return &t
}

// RemoteStatus describes where the work happens.
type RemoteStatus string

const (
	RemoteStatusRemote RemoteStatus = "REMOTE"
	RemoteStatusHybrid RemoteStatus = "HYBRID"
	RemoteStatusOnSite RemoteStatus = "ON_SITE"
)

var remoteStatusDisplayNames = map[RemoteStatus]string{
	RemoteStatusRemote: "Fully Remote",
	RemoteStatusHybrid: "Hybrid",
	RemoteStatusOnSite: "On-site",
}

// DisplayName returns the human readable label.
func (r RemoteStatus) DisplayName() string {
	if name, ok := remoteStatusDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// ParseRemoteStatus returns nil for an unknown name.
func ParseRemoteStatus(name string) *RemoteStatus {
	r := RemoteStatus(name)
	if _, ok := remoteStatusDisplayNames[r]; !ok {
		return nil
	}
	return &r
}

// CompanySize is a coarse bucket for employer size.
type CompanySize string

const (
	CompanySizeStartup    CompanySize = "STARTUP"
	CompanySizeSMB        CompanySize = "SMB"
	CompanySizeEnterprise CompanySize = "ENTERPRISE"
)

var companySizeDisplayNames = map[CompanySize]string{
	CompanySizeStartup:    "Startup",
	CompanySizeSMB:        "Small/Medium Business",
	CompanySizeEnterprise: "Enterprise",
}

// DisplayName returns the human readable label.
func (c CompanySize) DisplayName() string {
	if name, ok := companySizeDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseCompanySize returns nil for an unknown name.
func ParseCompanySize(name string) *CompanySize {
	c := CompanySize(name)
	if _, ok := companySizeDisplayNames[c]; !ok {
		return nil
	}
	return &c
}

// CommunicationType is the channel a recruiter contact happened on.
type CommunicationType string

const (
	CommunicationEmail             CommunicationType = "EMAIL"
	CommunicationPhoneCall         CommunicationType = "PHONE_CALL"
	CommunicationInPersonInterview CommunicationType = "IN_PERSON_INTERVIEW"
	CommunicationVideoInterview    CommunicationType = "VIDEO_INTERVIEW"
)

var communicationTypeDisplayNames = map[CommunicationType]string{
	CommunicationEmail:             "Email",
	CommunicationPhoneCall:         "Phone Call",
	CommunicationInPersonInterview: "In-Person Interview",
	CommunicationVideoInterview:    "Video Interview",
}

// DisplayName returns the human readable label.
func (c CommunicationType) DisplayName() string {
	if name, ok := communicationTypeDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseCommunicationType returns nil for an unknown name.
func ParseCommunicationType(name string) *CommunicationType {
	c := CommunicationType(name)
	if _, ok := communicationTypeDisplayNames[c]; !ok {
		return nil
	}
	return &c
}
