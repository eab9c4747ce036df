// Package analytics computes dashboard counts, rates, time series and
// rankings from application snapshots.
//
// Two definitions of "response" coexist. The dashboard and the company
// ranking count every status except APPLIED and GHOSTED; the analytics rates
// count a fixed allow-list that leaves out REJECTED_BY_ME.
package analytics

import (
	"github.com/jonathan/job-tracker/internal/types"
)

// IsDashboardResponse reports whether the status counts as a response on the
// dashboard: anything but APPLIED or GHOSTED.
func IsDashboardResponse(s types.ApplicationStatus) bool {
	return s != types.StatusApplied && s != types.StatusGhosted
}

// IsAnalyticsResponse reports whether the status counts as a response for
// the analytics rates.
func IsAnalyticsResponse(s types.ApplicationStatus) bool {
	switch s {
	case types.StatusEmail, types.StatusPhone, types.StatusInterview,
		types.StatusOffer, types.StatusRejectedByCompany:
		return true
	}
	return false
}

// IsRejection reports whether the status is a rejection from either side.
func IsRejection(s types.ApplicationStatus) bool {
	return s == types.StatusRejectedByCompany || s == types.StatusRejectedByMe
}

// StatusDistribution counts applications per status. The values always sum
// to len(apps).
func StatusDistribution(apps []types.JobApplication) map[types.ApplicationStatus]int {
	dist := make(map[types.ApplicationStatus]int)
	for _, a := range apps {
		dist[a.Status]++
	}
	return dist
}

// ComputeDashboardStatistics derives the dashboard counters.
func ComputeDashboardStatistics(apps []types.JobApplication) types.DashboardStatistics {
	stats := types.DashboardStatistics{
		TotalApplications:  len(apps),
		StatusDistribution: StatusDistribution(apps),
	}
	for _, a := range apps {
		if IsDashboardResponse(a.Status) {
			stats.ResponsesReceived++
		}
		if IsRejection(a.Status) {
			stats.Rejections++
		}
		switch a.Status {
		case types.StatusInterview:
			stats.InterviewsScheduled++
		case types.StatusOffer:
			stats.OffersReceived++
		}
	}
	return stats
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// ResponseRate is analytics-definition responses over total, as a percentage.
func ResponseRate(apps []types.JobApplication) float64 {
	return percent(countWhere(apps, IsAnalyticsResponse), len(apps))
}

// InterviewRate is interviews over analytics-definition responses.
func InterviewRate(apps []types.JobApplication) float64 {
	interviews := countWhere(apps, func(s types.ApplicationStatus) bool { return s == types.StatusInterview })
	return percent(interviews, countWhere(apps, IsAnalyticsResponse))
}

// SuccessRate is offers over total.
func SuccessRate(apps []types.JobApplication) float64 {
	offers := countWhere(apps, func(s types.ApplicationStatus) bool { return s == types.StatusOffer })
	return percent(offers, len(apps))
}

func countWhere(apps []types.JobApplication, pred func(types.ApplicationStatus) bool) int {
	n := 0
	for _, a := range apps {
		if pred(a.Status) {
			n++
		}
	}
	return n
}
