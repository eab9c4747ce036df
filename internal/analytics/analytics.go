package analytics

import (
	"sort"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// TopCompanies is the length of the company response-rate ranking.
const TopCompanies = 5

// CompanyResponseRates groups applications by exact company name and ranks
// the groups by dashboard-definition response rate, highest first. Ties keep
// the order in which companies first appear. At most TopCompanies rows.
func CompanyResponseRates(apps []types.JobApplication) []types.CompanyResponseRate {
	index := make(map[string]int)
	var rates []types.CompanyResponseRate

	for _, a := range apps {
		i, ok := index[a.CompanyName]
		if !ok {
			i = len(rates)
			index[a.CompanyName] = i
			rates = append(rates, types.CompanyResponseRate{CompanyName: a.CompanyName})
		}
		rates[i].TotalApplications++
		if IsDashboardResponse(a.Status) {
			rates[i].Responses++
		}
	}

	for i := range rates {
		rates[i].ResponseRate = percent(rates[i].Responses, rates[i].TotalApplications)
	}

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].ResponseRate > rates[j].ResponseRate
	})
	if len(rates) > TopCompanies {
		rates = rates[:TopCompanies]
	}
	if rates == nil {
		rates = []types.CompanyResponseRate{}
	}
	return rates
}

// FilterByDateRange keeps applications whose ApplicationDate lies in r.
func FilterByDateRange(apps []types.JobApplication, r types.DateRange) []types.JobApplication {
	out := make([]types.JobApplication, 0, len(apps))
	for _, a := range apps {
		if r.Contains(a.ApplicationDate) {
			out = append(out, a)
		}
	}
	return out
}

// ComputeAnalytics builds the full analytics view. When dateRange is set the
// applications are restricted to it, and history to the surviving
// applications.
func ComputeAnalytics(apps []types.JobApplication, history []types.StatusHistory, dateRange *types.DateRange, loc *time.Location) types.Analytics {
	if dateRange != nil {
		apps = FilterByDateRange(apps, *dateRange)
		history = historyFor(apps, history)
	}

	return types.Analytics{
		TotalApplications:     len(apps),
		ResponseRate:          ResponseRate(apps),
		InterviewRate:         InterviewRate(apps),
		SuccessRate:           SuccessRate(apps),
		AverageTimeToResponse: AverageTimeToResponse(history),
		StatusDistribution:    StatusDistribution(apps),
		ApplicationsOverTime:  MonthlyCounts(apps, loc),
		StatusTransitionTimes: TransitionTimes(history),
		CompanyResponseRates:  CompanyResponseRates(apps),
	}
}

func historyFor(apps []types.JobApplication, history []types.StatusHistory) []types.StatusHistory {
	keep := make(map[int64]bool, len(apps))
	for _, a := range apps {
		keep[a.ID] = true
	}
	out := make([]types.StatusHistory, 0, len(history))
	for _, h := range history {
		if keep[h.ApplicationID] {
			out = append(out, h)
		}
	}
	return out
}
